package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tourism-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AccountService is the credential store: accounts with bcrypt password hashes and a role.
type AccountService struct {
	DB       *gorm.DB
	Timeout  time.Duration
	HashCost int

	// dummyHash is compared against when the email is unknown so both login
	// failures cost roughly the same.
	dummyHash []byte
}

func NewAccountService(db *gorm.DB, timeout time.Duration) *AccountService {
	return NewAccountServiceWithCost(db, timeout, bcrypt.DefaultCost)
}

// NewAccountServiceWithCost lets tests trade hash strength for speed.
func NewAccountServiceWithCost(db *gorm.DB, timeout time.Duration, cost int) *AccountService {
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	if err != nil {
		panic(fmt.Sprintf("bcrypt dummy hash: %v", err))
	}
	return &AccountService{DB: db, Timeout: timeout, HashCost: cost, dummyHash: dummy}
}

type RegisterInput struct {
	Name     string `validate:"required,max=100"`
	Surname  string `validate:"required,max=100"`
	Phone    string `validate:"max=50"`
	Email    string `validate:"required,email,max=150"`
	Gender   string `validate:"required,max=30"`
	Password string `validate:"required,min=6,max=72"`
}

type UpdateAccountInput struct {
	Name    *string `validate:"omitempty,min=1,max=100"`
	Surname *string `validate:"omitempty,min=1,max=100"`
	Phone   *string `validate:"omitempty,max=50"`
	Gender  *string `validate:"omitempty,max=30"`
	Role    *string `validate:"omitempty,oneof=admin guest"`
}

// trimmed returns a trimmed copy so the caller's string is left alone.
func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a guest account. A second registration of the same
// email returns ErrEmailTaken and never creates a second row.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.Account, error) {
	return s.create(ctx, in, models.RoleGuest)
}

// CreateAdmin is used by the create-admin command; it is not reachable over HTTP.
func (s *AccountService) CreateAdmin(ctx context.Context, in RegisterInput) (*models.Account, error) {
	return s.create(ctx, in, models.RoleAdmin)
}

func (s *AccountService) create(ctx context.Context, in RegisterInput, role string) (*models.Account, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Surname = strings.TrimSpace(in.Surname)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Gender = strings.TrimSpace(in.Gender)
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.HashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w: %v", ErrInternal, err)
	}

	account := &models.Account{
		Name:         in.Name,
		Surname:      in.Surname,
		Phone:        in.Phone,
		Email:        in.Email,
		Gender:       in.Gender,
		PasswordHash: string(hash),
		Role:         role,
	}

	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Account{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}
		return tx.Create(account).Error
	})
	switch {
	case err == nil:
		return account, nil
	case errors.Is(err, ErrEmailTaken), isDuplicateKey(err):
		return nil, ErrEmailTaken
	default:
		return nil, dbError("create account", err)
	}
}

// Authenticate checks email and password. Callers must not reveal to clients
// which of ErrAccountNotFound or ErrBadCredential occurred.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, invalid("email and password are required")
	}

	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	var account models.Account
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, dbError("find account", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrBadCredential
		}
		return nil, fmt.Errorf("compare hash: %w: %v", ErrInternal, err)
	}
	return &account, nil
}

func (s *AccountService) Get(ctx context.Context, id uint) (*models.Account, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	var account models.Account
	err := s.DB.WithContext(ctx).First(&account, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, dbError("get account", err)
	}
	return &account, nil
}

func (s *AccountService) List(ctx context.Context) ([]models.Account, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	accounts := []models.Account{}
	if err := s.DB.WithContext(ctx).Order("id DESC").Find(&accounts).Error; err != nil {
		return nil, dbError("list accounts", err)
	}
	return accounts, nil
}

// Update applies an admin edit. Email and password are not editable here.
func (s *AccountService) Update(ctx context.Context, id uint, in UpdateAccountInput) (*models.Account, error) {
	in.Name = trimmed(in.Name)
	in.Surname = trimmed(in.Surname)
	in.Phone = trimmed(in.Phone)
	in.Gender = trimmed(in.Gender)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Surname != nil {
		updates["surname"] = *in.Surname
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.Gender != nil {
		updates["gender"] = *in.Gender
	}
	if in.Role != nil {
		updates["role"] = *in.Role
	}

	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	var account models.Account
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&account, id).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&account).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&account, id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, dbError("update account", err)
	}
	return &account, nil
}

func (s *AccountService) Delete(ctx context.Context, id uint) error {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	result := s.DB.WithContext(ctx).Delete(&models.Account{}, id)
	if result.Error != nil {
		return dbError("delete account", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}
