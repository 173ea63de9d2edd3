package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"helperhive/internal/domain/entity"
	"helperhive/internal/domain/repository"
	"helperhive/internal/infrastructure/metrics"
	"helperhive/pkg/errors"
	"helperhive/pkg/logger"
)

const (
	ActionSendMessage = "send_message"

	defaultMaxBodyLength  = 2000
	defaultCounterpartTTL = 30 * time.Second
)

// ChatUseCase is the direct messaging channel between two users.
type ChatUseCase struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	cache       Cache
	rateLimiter RateLimiter
	clock       Clock
	cfg         ChatConfig
}

type ChatConfig struct {
	MaxBodyLength  int
	CounterpartTTL time.Duration
}

func NewChatUseCase(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	cache Cache,
	rateLimiter RateLimiter,
	clock Clock,
	cfg ChatConfig,
) *ChatUseCase {
	if cfg.MaxBodyLength <= 0 {
		cfg.MaxBodyLength = defaultMaxBodyLength
	}
	if cfg.CounterpartTTL <= 0 {
		cfg.CounterpartTTL = defaultCounterpartTTL
	}

	return &ChatUseCase{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		cache:       cache,
		rateLimiter: rateLimiter,
		clock:       clock,
		cfg:         cfg,
	}
}

// ConversationKey identifies the unordered pair {a, b}. The length prefix
// keeps ids that contain the separator from colliding.
func ConversationKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return strconv.Itoa(len(a)) + ":" + a + "_" + b
}

type CounterpartProfile struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	AvatarURL string     `json:"avatar_url,omitempty"`
	IsOnline  bool       `json:"is_online"`
	LastSeen  *time.Time `json:"last_seen,omitempty"`
}

type ConversationSummary struct {
	ConversationKey string              `json:"conversation_key"`
	Counterpart     *CounterpartProfile `json:"counterpart"`
	LastMessage     *entity.Message     `json:"last_message"`
}

func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID, recipientID, body string) (*entity.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errors.InvalidInput("message cannot be empty", nil)
	}
	if utf8.RuneCountInString(body) > uc.cfg.MaxBodyLength {
		return nil, errors.InvalidInput(fmt.Sprintf("message cannot exceed %d characters", uc.cfg.MaxBodyLength), nil)
	}
	if senderID == recipientID {
		return nil, errors.InvalidInput("you cannot message yourself", nil)
	}

	if uc.rateLimiter != nil {
		if allowed, wait := uc.rateLimiter.Allow(senderID, ActionSendMessage); !allowed {
			return nil, errors.TooManyRequests(fmt.Sprintf("sending too fast, retry in %s", wait.Round(time.Second)))
		}
	}

	if _, err := uc.userRepo.GetByID(ctx, recipientID); err != nil {
		return nil, err
	}

	message := &entity.Message{
		ID:              uuid.New().String(),
		SenderID:        senderID,
		RecipientID:     recipientID,
		Body:            body,
		ConversationKey: ConversationKey(senderID, recipientID),
		Participants:    []string{senderID, recipientID},
		SentAt:          uc.clock.Now(),
	}

	if err := uc.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	metrics.MessagesSent.Inc()

	return message, nil
}

// ListConversations returns one summary per counterpart, most recent
// conversation first.
func (uc *ChatUseCase) ListConversations(ctx context.Context, userID string) ([]*ConversationSummary, error) {
	conversations, err := uc.messageRepo.ListConversations(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.summarize(ctx, userID, conversations), nil
}

func (uc *ChatUseCase) GetConversation(ctx context.Context, userID, counterpartID string, limit int) ([]*entity.Message, error) {
	if userID == counterpartID {
		return nil, errors.InvalidInput("a conversation needs two different users", nil)
	}
	return uc.messageRepo.ListConversation(ctx, ConversationKey(userID, counterpartID), limit)
}

func (uc *ChatUseCase) SubscribeConversations(ctx context.Context, userID string) (repository.Subscription[*ConversationSummary], error) {
	sub, err := uc.messageRepo.SubscribeConversations(ctx, userID)
	if err != nil {
		return nil, err
	}

	return repository.Map(sub, func(conversations []*entity.Conversation) []*ConversationSummary {
		return uc.summarize(ctx, userID, conversations)
	}), nil
}

func (uc *ChatUseCase) summarize(ctx context.Context, userID string, conversations []*entity.Conversation) []*ConversationSummary {
	summaries := make([]*ConversationSummary, 0, len(conversations))
	for _, c := range conversations {
		last := c.LastMessage
		summaries = append(summaries, &ConversationSummary{
			ConversationKey: c.Key,
			Counterpart:     uc.counterpart(ctx, c.Counterpart(userID)),
			LastMessage:     &last,
		})
	}
	return summaries
}

func counterpartCacheKey(userID string) string {
	return "counterpart:" + userID
}

func (uc *ChatUseCase) counterpart(ctx context.Context, userID string) *CounterpartProfile {
	key := counterpartCacheKey(userID)

	if uc.cache != nil {
		if data, ok, err := uc.cache.Get(ctx, key); err == nil && ok {
			var profile CounterpartProfile
			if err := json.Unmarshal(data, &profile); err == nil {
				return &profile
			}
		}
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, errors.CodeNotFound) {
			logger.Warn("Failed to load conversation counterpart %s: %v", userID, err)
		}
		return &CounterpartProfile{ID: userID, Name: "Unknown user"}
	}

	profile := &CounterpartProfile{
		ID:        user.ID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		IsOnline:  user.IsOnline,
		LastSeen:  user.LastSeen,
	}

	if uc.cache != nil {
		if data, err := json.Marshal(profile); err == nil {
			if err := uc.cache.Set(ctx, key, data, uc.cfg.CounterpartTTL); err != nil {
				logger.Debug("Counterpart cache write failed for %s: %v", userID, err)
			}
		}
	}

	return profile
}

// InvalidateCounterpart drops the cached profile so the next read sees fresh
// presence and name.
func InvalidateCounterpart(ctx context.Context, cache Cache, userID string) {
	if cache == nil {
		return
	}
	if err := cache.Delete(ctx, counterpartCacheKey(userID)); err != nil {
		logger.Debug("Counterpart cache invalidation failed for %s: %v", userID, err)
	}
}
