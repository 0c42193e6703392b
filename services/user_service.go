package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/cook-platform/forms"
	"github.com/yeremiapane/cook-platform/models"
	"github.com/yeremiapane/cook-platform/storage"
	"github.com/yeremiapane/cook-platform/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	db    *gorm.DB
	store storage.Storage
}

func NewUserService(db *gorm.DB, store storage.Storage) *UserService {
	return &UserService{db: db, store: store}
}

// Register creates the account; cooks also get an empty profile.
func (s *UserService) Register(form forms.RegisterForm) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(form.Password1), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username: form.Username,
		Email:    form.Email,
		Role:     form.Role,
		Password: string(hashed),
		IsActive: true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&models.User{}).Where("username = ?", user.Username).Count(&taken).Error; err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if taken > 0 {
			return ErrUsernameTaken
		}

		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUsernameTaken
			}
			return fmt.Errorf("create user: %w", err)
		}

		if user.IsCook() {
			profile, err := getOrCreateProfile(tx, &user)
			if err != nil {
				return err
			}
			user.CookProfile = profile
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
	}).Info("User registered")
	return &user, nil
}

// CreateSuperuser creates a staff account for the admin back office.
func (s *UserService) CreateSuperuser(username, email, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username:    username,
		Email:       email,
		Role:        models.RoleCustomer,
		Password:    string(hashed),
		IsActive:    true,
		IsStaff:     true,
		IsSuperuser: true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create superuser: %w", err)
	}
	return &user, nil
}

// Authenticate checks the credentials and stamps last_login.
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactive
	}

	now := time.Now().UTC()
	if err := s.db.Model(&models.User{}).Where("id = ?", user.ID).Update("last_login", now).Error; err != nil {
		utils.ErrorLogger.Printf("Error updating last login for %s: %v", user.Username, err)
	}
	user.LastLogin = &now
	return &user, nil
}

// ProfileUpdate carries the validated profile page input. CookForm and
// Photo are ignored for customers.
type ProfileUpdate struct {
	User     forms.UserUpdateForm
	CookForm *forms.CookProfileForm
	Avatar   *multipart.FileHeader
	Photo    *multipart.FileHeader
}

// UpdateProfile saves the user's fields, avatar and, for cooks, the
// profile fields and photo. Uploads happen before the transaction; the
// replaced files are removed after it commits, the new ones if it fails.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, in ProfileUpdate) (profile *models.CookProfile, err error) {
	var stale, fresh []string
	defer func() {
		if err != nil {
			s.removeUploads(ctx, fresh)
		}
	}()

	avatar := user.Avatar
	if in.Avatar != nil {
		link, err := s.upload(ctx, in.Avatar, "avatars")
		if err != nil {
			return nil, err
		}
		fresh = append(fresh, link)
		if avatar != nil {
			stale = append(stale, *avatar)
		}
		avatar = &link
	}

	var photo *string
	if user.IsCook() && in.CookForm != nil && in.Photo != nil {
		link, err := s.upload(ctx, in.Photo, "cook_photos")
		if err != nil {
			return nil, err
		}
		fresh = append(fresh, link)
		photo = &link
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
			"first_name": in.User.FirstName,
			"last_name":  in.User.LastName,
			"email":      in.User.Email,
			"avatar":     avatar,
		}).Error; err != nil {
			return fmt.Errorf("update user: %w", err)
		}

		if !user.IsCook() || in.CookForm == nil {
			return nil
		}

		p, err := getOrCreateProfile(tx, user)
		if err != nil {
			return err
		}
		updates := map[string]interface{}{
			"cuisine":          in.CookForm.Cuisine,
			"dishes":           in.CookForm.Dishes,
			"experience_years": in.CookForm.ExperienceYears,
			"hourly_rate":      utils.RoundMoney(in.CookForm.HourlyRate),
			"location":         in.CookForm.Location,
			"bio":              in.CookForm.Bio,
		}
		if photo != nil {
			if p.Photo != nil {
				stale = append(stale, *p.Photo)
			}
			updates["photo"] = *photo
		}
		if err := tx.Model(&models.CookProfile{}).Where("id = ?", p.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("update cook profile: %w", err)
		}
		p.Cuisine = in.CookForm.Cuisine
		p.Dishes = in.CookForm.Dishes
		p.ExperienceYears = in.CookForm.ExperienceYears
		p.HourlyRate = utils.RoundMoney(in.CookForm.HourlyRate)
		p.Location = in.CookForm.Location
		p.Bio = in.CookForm.Bio
		if photo != nil {
			p.Photo = photo
		}
		profile = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	user.FirstName = in.User.FirstName
	user.LastName = in.User.LastName
	user.Email = in.User.Email
	user.Avatar = avatar

	s.removeUploads(ctx, stale)
	return profile, nil
}

func (s *UserService) removeUploads(ctx context.Context, links []string) {
	for _, link := range links {
		if key := s.store.GetObjectKeyFromLink(link); key != "" {
			if err := s.store.DeleteFile(ctx, key); err != nil {
				utils.ErrorLogger.Printf("Error deleting upload %s: %v", key, err)
			}
		}
	}
}

func (s *UserService) upload(ctx context.Context, file *multipart.FileHeader, folder string) (string, error) {
	if s.store == nil {
		return "", errors.New("no storage configured")
	}
	key, err := s.store.UploadFile(ctx, file, folder, storage.AllowImage...)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", folder, err)
	}
	return s.store.GetPublicLinkKey(key), nil
}
