package seed

import (
	"fmt"
	"os"

	"whisperwall/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Preset describes a deterministic data set loaded from a YAML file. Presets
// are used for demos and reproducible test fixtures where random data is not
// good enough.
type Preset struct {
	Users []PresetUser `yaml:"users"`
}

// PresetUser is a user entry in a preset file.
type PresetUser struct {
	Email         string        `yaml:"email"`
	Password      string        `yaml:"password"`
	GoogleID      string        `yaml:"google_id"`
	LegacySecrets string        `yaml:"legacy_secrets"`
	Secrets       []PresetEntry `yaml:"secrets"`
}

// PresetEntry is a secret with optional replies keyed by author email.
type PresetEntry struct {
	Text    string            `yaml:"text"`
	Replies map[string]string `yaml:"replies"`
}

// LoadPreset parses a preset YAML file.
func LoadPreset(path string) (*Preset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading preset: %w", err)
	}
	var preset Preset
	if err := yaml.Unmarshal(raw, &preset); err != nil {
		return nil, fmt.Errorf("parsing preset: %w", err)
	}
	return &preset, nil
}

// Apply inserts the preset's users, secrets and replies. Reply authors are
// resolved by email against the preset's own users.
func (p *Preset) Apply(db *gorm.DB) error {
	byEmail := make(map[string]uint, len(p.Users))

	for i := range p.Users {
		entry := &p.Users[i]
		user := models.User{LegacySecrets: entry.LegacySecrets}
		if entry.Email != "" {
			email := entry.Email
			user.Email = &email
		}
		if entry.GoogleID != "" {
			googleID := entry.GoogleID
			user.GoogleID = &googleID
		}
		if entry.Password != "" {
			hashed, err := bcrypt.GenerateFromPassword([]byte(entry.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			user.Password = string(hashed)
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("creating preset user %q: %w", entry.Email, err)
		}
		byEmail[entry.Email] = user.ID
	}

	for i := range p.Users {
		entry := &p.Users[i]
		ownerID := byEmail[entry.Email]
		for _, item := range entry.Secrets {
			secret := models.Secret{Text: item.Text, UserID: ownerID}
			if err := db.Create(&secret).Error; err != nil {
				return fmt.Errorf("creating preset secret for %q: %w", entry.Email, err)
			}
			for authorEmail, text := range item.Replies {
				authorID, ok := byEmail[authorEmail]
				if !ok {
					return fmt.Errorf("preset reply author %q is not a preset user", authorEmail)
				}
				reply := models.Reply{Text: text, SecretID: secret.ID, AuthorID: authorID}
				if err := db.Create(&reply).Error; err != nil {
					return fmt.Errorf("creating preset reply: %w", err)
				}
			}
		}
	}
	return nil
}
