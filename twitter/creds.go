package twitter

import (
	"encoding/json"
	"fmt"
	"os"
)

// Credentials holds the four OAuth 1.0a tokens needed to sign
// requests. The on-disk layout matches the auth.json file written by
// the auth command.
type Credentials struct {
	APIKey            string `json:"api_key"`
	APISecretKey      string `json:"api_secret_key"`
	AccessToken       string `json:"access_token"`
	AccessTokenSecret string `json:"access_token_secret"`
}

func LoadCredentials(path string) (*Credentials, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var creds Credentials
	if err := json.Unmarshal(content, &creds); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &creds, nil
}

func (c *Credentials) Save(path string) error {
	encoded, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(encoded, '\n'), 0600)
}
