package auth

import (
	"strings"

	"confina-backend/internal/domain"
	"confina-backend/internal/pkg/constants"
	"confina-backend/internal/pkg/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginInput for login request body.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionUserShape is the object stored in session and returned by /me.
// Role and FarmID describe the user's active farm membership.
type SessionUserShape struct {
	UserID   string  `json:"user_id"`
	Fullname string  `json:"fullname"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	FarmID   *string `json:"farm_id"`
}

// UserFinder abstracts user lookup by email+password (production GORM or test doubles).
type UserFinder interface {
	FindByEmailAndPassword(email, password string) (*domain.User, error)
}

// GormUserFinder implements UserFinder using GORM and bcrypt.
type GormUserFinder struct{ DB *gorm.DB }

func (g *GormUserFinder) FindByEmailAndPassword(email, password string) (*domain.User, error) {
	return LoginUser(g.DB, LoginInput{Email: email, Password: password})
}

// LoginUser finds the user by email and verifies the password.
func LoginUser(db *gorm.DB, input LoginInput) (*domain.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, ErrEmailPasswordRequired
	}
	var u domain.User
	if err := db.Where("email = ?", strings.ToLower(input.Email)).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvalidEmail
		}
		return nil, err
	}
	if u.PasswordHash == "" {
		return nil, ErrInvalidEmail
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	return &u, nil
}

// PrimaryMembership returns the user's oldest farm membership, or nil when
// the user belongs to no farm yet.
func PrimaryMembership(db *gorm.DB, userID string) (*domain.FarmMember, error) {
	var m domain.FarmMember
	err := db.Where("user_id = ?", userID).Order("created_at ASC").First(&m).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// RegisterInput for the signup request body. The farm is created together
// with the account and the user becomes its owner.
type RegisterInput struct {
	Fullname string  `json:"fullname"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FarmName string  `json:"farm_name"`
	City     *string `json:"city"`
	State    *string `json:"state"`
}

// RegisterUser creates the user, their farm and the owner membership in one
// transaction.
func RegisterUser(db *gorm.DB, input RegisterInput) (*domain.User, *domain.Farm, error) {
	if strings.TrimSpace(input.Fullname) == "" {
		return nil, nil, ErrFullnameRequired
	}
	if !validation.IsValidEmail(input.Email) {
		return nil, nil, ErrInvalidEmail
	}
	if !validation.IsValidPassword(input.Password) {
		return nil, nil, ErrWeakPassword
	}
	if strings.TrimSpace(input.FarmName) == "" {
		return nil, nil, ErrFarmNameRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user := domain.User{
		Fullname:     strings.TrimSpace(input.Fullname),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hash),
	}
	farm := domain.Farm{
		Name:  strings.TrimSpace(input.FarmName),
		City:  input.City,
		State: input.State,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if err := tx.Create(&farm).Error; err != nil {
			return err
		}
		member := domain.FarmMember{
			FarmID: farm.FarmID,
			UserID: user.UserID,
			Role:   constants.Owner,
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &user, &farm, nil
}

// VerifyUser validates the session user and returns the shape for /me.
func VerifyUser(sessionUser interface{}) (*SessionUserShape, error) {
	if sessionUser == nil {
		return nil, ErrNotAuthenticated
	}
	m, ok := sessionUser.(map[string]interface{})
	if !ok {
		return nil, ErrNotAuthenticated
	}
	userID, _ := m["user_id"].(string)
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	out := &SessionUserShape{
		UserID:   userID,
		Fullname: str(m["fullname"]),
		Email:    str(m["email"]),
		Role:     str(m["role"]),
	}
	if f, ok := m["farm_id"]; ok && f != nil {
		if s, ok := f.(string); ok {
			out.FarmID = &s
		}
	}
	return out, nil
}

func str(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
