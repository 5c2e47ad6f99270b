package seed

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"whisperwall/internal/database"
	"whisperwall/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func TestSeed(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 5, NumSecrets: 10, NumReplies: 8}))

	var users, secrets, replies int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Secret{}).Count(&secrets)
	db.Model(&models.Reply{}).Count(&replies)
	assert.Equal(t, int64(5), users)
	assert.Equal(t, int64(10), secrets)
	assert.Equal(t, int64(8), replies)

	// every seeded account can log in with the default password
	var user models.User
	require.NoError(t, db.First(&user).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(DefaultPassword)))
}

func TestSeed_CleanRemovesOldData(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 3, NumSecrets: 3}))
	require.NoError(t, Seed(db, Options{NumUsers: 2, NumSecrets: 2, ShouldClean: true}))

	var users int64
	db.Model(&models.User{}).Count(&users)
	assert.Equal(t, int64(2), users)
}

func TestPreset(t *testing.T) {
	db := newTestDB(t)

	raw := `
users:
  - email: ana@example.com
    password: Password123
    secrets:
      - text: i talk to my rubber duck
        replies:
          bob@example.com: so do i
  - email: bob@example.com
    password: Password123
  - email: old@example.com
    legacy_secrets: '["from the old site"]'
`
	path := filepath.Join(t.TempDir(), "preset.yml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	preset, err := LoadPreset(path)
	require.NoError(t, err)
	require.Len(t, preset.Users, 3)

	require.NoError(t, preset.Apply(db))

	var secret models.Secret
	require.NoError(t, db.First(&secret).Error)
	assert.Equal(t, "i talk to my rubber duck", secret.Text)

	var reply models.Reply
	require.NoError(t, db.Where("secret_id = ?", secret.ID).First(&reply).Error)
	assert.Equal(t, "so do i", reply.Text)

	var legacy models.User
	require.NoError(t, db.Where("email = ?", "old@example.com").First(&legacy).Error)
	assert.Equal(t, `["from the old site"]`, legacy.LegacySecrets)
}

func TestPreset_UnknownReplyAuthor(t *testing.T) {
	db := newTestDB(t)

	preset := &Preset{Users: []PresetUser{{
		Email: "ana@example.com",
		Secrets: []PresetEntry{{
			Text:    "s",
			Replies: map[string]string{"ghost@example.com": "boo"},
		}},
	}}}

	assert.Error(t, preset.Apply(db))
}
