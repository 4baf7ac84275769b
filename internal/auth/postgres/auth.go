package postgres

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/adiwarna/identity-admin/internal/auth"
	userDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) *AuthRepository {
	return &AuthRepository{db: db}
}

var _ auth.RepositoryAPI = (*AuthRepository)(nil)

func (r *AuthRepository) GetUserByEmail(email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *AuthRepository) GetUserByID(id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// PermissionsForUser flattens the permission arrays of the user's active
// functional role grants into one sorted, de-duplicated list.
func (r *AuthRepository) PermissionsForUser(userID int64) ([]string, error) {
	var permissionBlobs []string
	err := r.db.Raw(`
		SELECT fr.permissions
		FROM functional_roles fr
		JOIN user_functional_roles ufr ON ufr.functional_role_id = fr.id
		WHERE ufr.user_id = ? AND ufr.is_active = ? AND fr.is_active = ?`,
		userID, true, true).
		Scan(&permissionBlobs).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var permissions []string
	for _, blob := range permissionBlobs {
		if blob == "" {
			continue
		}
		var names []string
		if err := json.Unmarshal([]byte(blob), &names); err != nil {
			continue
		}
		for _, name := range names {
			if !seen[name] {
				seen[name] = true
				permissions = append(permissions, name)
			}
		}
	}
	sort.Strings(permissions)
	return permissions, nil
}

func (r *AuthRepository) UpdateLastLogin(userID int64, at time.Time) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Update("last_login_at", at).Error
}

func (r *AuthRepository) SetTOTP(userID int64, secret *string, enabled bool) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"totp_secret": secret,
			"mfa_enabled": enabled,
		}).Error
}

func (r *AuthRepository) CreateEmailOTP(otp *userDatamodel.EmailOTP) error {
	return r.db.Create(otp).Error
}

func (r *AuthRepository) GetEmailOTP(challengeID string) (*userDatamodel.EmailOTP, error) {
	var otp userDatamodel.EmailOTP
	err := r.db.Where("challenge_id = ?", challengeID).First(&otp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &otp, nil
}

func (r *AuthRepository) ConsumeEmailOTP(id int64, at time.Time) error {
	return r.db.Model(&userDatamodel.EmailOTP{}).
		Where("id = ? AND consumed_at IS NULL", id).
		Update("consumed_at", at).Error
}
