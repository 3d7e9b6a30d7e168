package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/MUGAIRWA/HACKATHON2/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"gorm.io/gorm"
)

// PushService delivers mobile push through SNS platform endpoints.
type PushService struct {
	db              *gorm.DB
	sns             *awssns.Client
	fcmPlatformArn  string
	apnsPlatformArn string
}

func NewPushService(db *gorm.DB) (*PushService, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &PushService{
		db:              db,
		sns:             awssns.NewFromConfig(cfg),
		fcmPlatformArn:  os.Getenv("SNS_FCM_ARN"),
		apnsPlatformArn: os.Getenv("SNS_APNS_ARN"),
	}, nil
}

func (p *PushService) tokenHash(tok string) string {
	h := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(h[:])
}

// RegisterDevice creates (or reuses) an SNS endpoint for a device token.
// Tokens are stored hashed only.
func (p *PushService) RegisterDevice(userID, platform, token string) (*models.UserDevice, error) {
	platform = strings.ToLower(strings.TrimSpace(platform))

	var platformArn string
	switch platform {
	case "android":
		platformArn = p.fcmPlatformArn
	case "ios":
		platformArn = p.apnsPlatformArn
	default:
		return nil, errors.New("platform must be android or ios")
	}
	if platformArn == "" {
		return nil, errors.New("push platform not configured")
	}

	hash := p.tokenHash(token)

	var dev models.UserDevice
	err := p.db.Where("user_id = ? AND token_hash = ?", userID, hash).First(&dev).Error
	if err == nil {
		return &dev, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	out, err := p.sns.CreatePlatformEndpoint(context.TODO(), &awssns.CreatePlatformEndpointInput{
		PlatformApplicationArn: aws.String(platformArn),
		Token:                  aws.String(token),
	})
	if err != nil {
		return nil, err
	}

	dev = models.UserDevice{
		UserID:      userID,
		Platform:    platform,
		TokenHash:   hash,
		EndpointARN: aws.ToString(out.EndpointArn),
		Enabled:     true,
	}
	if err := p.db.Create(&dev).Error; err != nil {
		return nil, err
	}
	return &dev, nil
}

// PushToUser publishes to every enabled endpoint of one user. Errors are
// returned for logging only; push is never load-bearing.
func (p *PushService) PushToUser(userID, title, message string, data map[string]string) error {
	var devices []models.UserDevice
	if err := p.db.Where("user_id = ? AND enabled = ?", userID, true).Find(&devices).Error; err != nil {
		return err
	}

	payload := map[string]any{
		"default": message,
		"GCM": mustJSON(map[string]any{
			"notification": map[string]string{"title": title, "body": message},
			"data":         data,
		}),
		"APNS": mustJSON(map[string]any{
			"aps":  map[string]any{"alert": map[string]string{"title": title, "body": message}},
			"data": data,
		}),
	}
	msg := mustJSON(payload)

	var lastErr error
	for _, dev := range devices {
		_, err := p.sns.Publish(context.TODO(), &awssns.PublishInput{
			TargetArn:        aws.String(dev.EndpointARN),
			Message:          aws.String(msg),
			MessageStructure: aws.String("json"),
		})
		if err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func mustJSON(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}
