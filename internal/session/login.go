package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/placeprep/internal/store"
)

// Login registers name locally (or reuses the existing learner) and issues
// a fresh token.
func Login(ctx context.Context, repo store.LearnerRepo, name string, admin bool) (Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Session{}, fmt.Errorf("name is required")
	}

	role := RoleLearner
	if admin {
		role = RoleAdmin
	}

	l, err := repo.Upsert(ctx, store.Learner{
		ID:    uuid.New().String(),
		Name:  name,
		Role:  role,
		Token: uuid.New().String(),
	})
	if err != nil {
		return Session{}, fmt.Errorf("register learner: %w", err)
	}

	return Session{
		LearnerID: l.ID,
		Name:      l.Name,
		Role:      l.Role,
		Token:     l.Token,
		IssuedAt:  time.Now().UTC(),
	}, nil
}
