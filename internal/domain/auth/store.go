package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// FindUserByUsername looks up a user by exact, case-sensitive username, with
// group memberships loaded. Returns (nil, nil) when no such user exists.
func (s *Store) FindUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := s.DB.QueryRow(ctx, `
    SELECT id, username, password_hash
    FROM users
    WHERE username = $1
  `, username).Scan(&user.ID, &user.Username, &user.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT g.id, g.name
    FROM groups g
    JOIN user_groups ug ON ug.group_id = g.id
    WHERE ug.user_id = $1
    ORDER BY g.id
  `, user.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	user.Groups = make([]Group, 0, 1)
	for rows.Next() {
		var group Group
		if err := rows.Scan(&group.ID, &group.Name); err != nil {
			return nil, err
		}
		user.Groups = append(user.Groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser persists a new user with a single group membership in one
// transaction, creating the group if it does not exist yet. The unique
// constraint on users.username is the authority on duplicate usernames;
// its violation surfaces as a pgconn error with code 23505.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash, groupName string) (*User, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var groupID int64
	err = tx.QueryRow(ctx, `
    INSERT INTO groups (name)
    VALUES ($1)
    ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
    RETURNING id
  `, groupName).Scan(&groupID)
	if err != nil {
		return nil, err
	}

	var userID int64
	err = tx.QueryRow(ctx, `
    INSERT INTO users (username, password_hash)
    VALUES ($1, $2)
    RETURNING id
  `, username, passwordHash).Scan(&userID)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO user_groups (user_id, group_id)
    VALUES ($1, $2)
  `, userID, groupID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &User{
		ID:           userID,
		Username:     username,
		Groups:       []Group{{ID: groupID, Name: groupName}},
		PasswordHash: passwordHash,
	}, nil
}
