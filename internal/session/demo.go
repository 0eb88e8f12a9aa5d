package session

import (
	"fmt"
	"strings"

	"github.com/aawaaz/casedesk/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// DefaultDemoPassword is the shared password of every demo account
const DefaultDemoPassword = "password"

// DemoAccount is a fallback identity available only in demo mode
type DemoAccount struct {
	ID           models.ID
	Name         string
	Email        string
	Role         models.Role
	passwordHash []byte
}

// DemoAccounts is the demo-mode account table
type DemoAccounts struct {
	byEmail map[string]DemoAccount
}

// DefaultDemoSpec seeds one demo account per dashboard role
const DefaultDemoSpec = "superadmin@demo.local:SUPERADMIN:Demo Superadmin," +
	"member@demo.local:MEMBER:Demo Case Worker," +
	"sdm@demo.local:SDM:Demo SDM," +
	"dm@demo.local:DM:Demo DM," +
	"sp@demo.local:SP:Demo SP"

// ParseDemoAccounts builds the table from "email:ROLE:Name" entries
// separated by commas, hashing password with bcrypt at the given cost.
func ParseDemoAccounts(spec, password string, cost int) (*DemoAccounts, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo password: %w", err)
	}

	accounts := &DemoAccounts{byEmail: make(map[string]DemoAccount)}
	for i, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("demo account %q: want email:ROLE[:Name]", entry)
		}
		role := models.ParseRole(parts[1])
		if !role.Valid() {
			return nil, fmt.Errorf("demo account %q: unknown role %q", entry, parts[1])
		}
		name := parts[0]
		if len(parts) == 3 {
			name = parts[2]
		}
		email := strings.ToLower(strings.TrimSpace(parts[0]))
		accounts.byEmail[email] = DemoAccount{
			ID:           models.ID(fmt.Sprintf("demo-%d", i+1)),
			Name:         name,
			Email:        email,
			Role:         role,
			passwordHash: hash,
		}
	}
	return accounts, nil
}

// Authenticate returns the demo account matching the credentials
func (d *DemoAccounts) Authenticate(email, password string) (DemoAccount, bool) {
	if d == nil {
		return DemoAccount{}, false
	}
	acct, ok := d.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return DemoAccount{}, false
	}
	if err := bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)); err != nil {
		return DemoAccount{}, false
	}
	return acct, true
}

// Len returns the number of demo accounts
func (d *DemoAccounts) Len() int {
	if d == nil {
		return 0
	}
	return len(d.byEmail)
}
