package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ClientService manages the API clients dashboards use to obtain access tokens
type ClientService interface {
	// CreateClient stores a new client and returns the plain secret, shown only once
	CreateClient(userID uint, name, scopes string) (*models.OAuthClient, string, error)
	GetClientsByUserID(userID uint) ([]models.OAuthClient, error)
	GetClientByID(id string) (*models.OAuthClient, error)
	DeleteClient(clientID string, userID uint) error
}

type clientService struct {
	db *gorm.DB
}

func NewClientService(db *gorm.DB) ClientService {
	return &clientService{db: db}
}

// DefaultClientScopes are granted when a client is created without scopes
const DefaultClientScopes = "read write"

var allowedScopes = map[string]bool{"read": true, "write": true}

// normalizeScopes validates a space separated scope list and removes duplicates
func normalizeScopes(scopes string) (string, error) {
	fields := strings.Fields(scopes)
	if len(fields) == 0 {
		return DefaultClientScopes, nil
	}
	seen := make(map[string]bool, len(fields))
	kept := make([]string, 0, len(fields))
	for _, scope := range fields {
		if !allowedScopes[scope] {
			return "", fmt.Errorf("%w: %q", ErrInvalidScope, scope)
		}
		if !seen[scope] {
			seen[scope] = true
			kept = append(kept, scope)
		}
	}
	return strings.Join(kept, " "), nil
}

func (s *clientService) CreateClient(userID uint, name, scopes string) (*models.OAuthClient, string, error) {
	scopes, err := normalizeScopes(scopes)
	if err != nil {
		return nil, "", err
	}

	secret := uuid.New().String()
	hashedSecret, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	client := &models.OAuthClient{
		ID:         uuid.New().String(),
		Secret:     string(hashedSecret),
		Name:       name,
		UserID:     userID,
		Scopes:     scopes,
		GrantTypes: "client_credentials",
	}
	if err := s.db.Create(client).Error; err != nil {
		return nil, "", err
	}
	return client, secret, nil
}

func (s *clientService) GetClientsByUserID(userID uint) ([]models.OAuthClient, error) {
	var clients []models.OAuthClient
	if err := s.db.Where("user_id = ?", userID).Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *clientService) GetClientByID(id string) (*models.OAuthClient, error) {
	var client models.OAuthClient
	if err := s.db.Where("id = ?", id).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (s *clientService) DeleteClient(clientID string, userID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", clientID, userID).Delete(&models.OAuthClient{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrClientNotFound
	}
	return nil
}
