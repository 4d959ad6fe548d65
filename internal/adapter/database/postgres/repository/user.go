package repository

import (
	"context"
	"errors"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"todoapp/internal/adapter/database/postgres"
	"todoapp/internal/core/domain"
	"todoapp/internal/core/port"
)

const userColumns = "id, uuid, email, encrypted_password, created_at, updated_at"

type UserRepository struct {
	db *postgres.DB
}

func NewUserRepository(db *postgres.DB) port.UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var user domain.User

	err := row.Scan(
		&user.ID,
		&user.UUID,
		&user.Email,
		&user.EncryptedPassword,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	return user, err
}

func (ur *UserRepository) GetByID(ctx context.Context, id int) (domain.User, error) {
	query := ur.db.QueryBuilder.Select(userColumns).
		From("users").
		Where(sq.Eq{"id": id}).
		Limit(1)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	user, err := scanUser(ur.db.QueryRow(ctx, stmt, args...))

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}

	if err != nil {
		slog.Error("Error getting user by id", "error", err, "id", id)
		return domain.User{}, err
	}

	return user, nil
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := ur.db.QueryBuilder.Select(userColumns).
		From("users").
		Where(sq.Eq{"email": email}).
		Limit(1)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	user, err := scanUser(ur.db.QueryRow(ctx, stmt, args...))

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}

	if err != nil {
		slog.Error("Error getting user by email", "error", err)
		return domain.User{}, err
	}

	return user, nil
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	query := ur.db.QueryBuilder.Insert("users").
		Columns("uuid", "email", "encrypted_password", "created_at", "updated_at").
		Values(user.UUID, user.Email, user.EncryptedPassword, user.CreatedAt, user.UpdatedAt).
		Suffix("RETURNING " + userColumns)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	saved, err := scanUser(ur.db.QueryRow(ctx, stmt, args...))

	if err != nil {
		slog.Error("Error creating user", "error", err)
		return domain.User{}, err
	}

	return saved, nil
}
