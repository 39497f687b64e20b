package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// UserRecord is one entry of a user-data export.
type UserRecord struct {
	Login    string `json:"login"`
	UserType string `json:"user_type"`
}

// LoadUserData reads a user-data JSON file and returns the logins whose
// user_type is one of types. The file is an object keyed by anything
// (typically a user id) with UserRecord values.
func LoadUserData(path string, types []string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read user data %s: %w", path, err)
	}

	var records map[string]UserRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse user data %s: %w", path, err)
	}

	return FilterUserTypes(records, types), nil
}

// FilterUserTypes returns the logins of records whose user type is in types,
// ordered by record key so the result is stable.
func FilterUserTypes(records map[string]UserRecord, types []string) []string {
	wanted := make(map[string]struct{}, len(types))
	for _, t := range types {
		wanted[t] = struct{}{}
	}

	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var logins []string
	for _, k := range keys {
		rec := records[k]
		if rec.Login == "" {
			continue
		}
		if _, ok := wanted[rec.UserType]; ok {
			logins = append(logins, rec.Login)
		}
	}
	return logins
}
