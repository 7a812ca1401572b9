package app

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/ksef-tools/ksefauth/internal/session/domain"
)

// secretEntry is one principal in the secrets file. The document is a JSON
// object keyed by principal name:
//
//	{
//	  "firma-a": {"token": "...", "nip": "5261040828"},
//	  "firma-b": {"token": "...", "nip": "1132245580"}
//	}
type secretEntry struct {
	Token string `json:"token"`
	NIP   string `json:"nip"`
}

// LoadPrincipals reads the secrets file and returns the principals in stable
// (sorted) order. The secret material stays inside the returned principals
// and must not be logged.
func LoadPrincipals(path string) ([]domain.Principal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secrets file %s: %w", path, err)
	}

	entries := make(map[string]secretEntry)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse secrets file %s: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("secrets file %s defines no principals", path)
	}

	principals := make([]domain.Principal, 0, len(entries))
	for name, entry := range entries {
		if entry.Token == "" {
			return nil, fmt.Errorf("principal %s is missing a token", name)
		}
		if entry.NIP == "" {
			return nil, fmt.Errorf("principal %s is missing a nip", name)
		}
		principals = append(principals, domain.Principal{
			ID:     name,
			Secret: entry.Token,
			NIP:    entry.NIP,
		})
	}

	sort.Slice(principals, func(i, j int) bool {
		return principals[i].ID < principals[j].ID
	})

	return principals, nil
}
