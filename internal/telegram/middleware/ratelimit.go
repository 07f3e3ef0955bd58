package middleware

import (
	"strconv"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	inactiveUserTTL = time.Hour
	warningInterval = 30 * time.Second
)

// Warner tells a chat that it is being throttled
type Warner interface {
	Send(chatID int64, text string, markup any) error
}

type userLimit struct {
	limiter  *rate.Limiter
	mu       sync.Mutex
	warnedAt time.Time
}

// RateLimiterMiddleware implements token bucket rate limiting per user.
// Buckets of users silent for an hour are dropped.
type RateLimiterMiddleware struct {
	limits  *cache.Cache
	mu      sync.Mutex
	every   rate.Limit
	burst   int
	message string
	warner  Warner
	logger  *zap.Logger
}

// NewRateLimiterMiddleware creates a new rate limiter middleware
func NewRateLimiterMiddleware(
	requestsPerMinute int,
	burstSize int,
	message string,
	warner Warner,
	logger *zap.Logger,
) *RateLimiterMiddleware {
	return &RateLimiterMiddleware{
		limits:  cache.New(inactiveUserTTL, 10*time.Minute),
		every:   rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:   max(burstSize, 1),
		message: message,
		warner:  warner,
		logger:  logger,
	}
}

// Handle processes the update through rate limiting
func (rl *RateLimiterMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	userID, chatID := ids(update)
	if userID == 0 {
		next(update)
		return
	}

	if !rl.allow(userID, chatID, time.Now()) {
		rl.logger.Warn("rate limit exceeded",
			zap.Int64("user_id", userID),
			zap.Int64("chat_id", chatID),
		)
		return
	}

	next(update)
}

func (rl *RateLimiterMiddleware) allow(userID, chatID int64, now time.Time) bool {
	limit := rl.limitFor(userID)

	limit.mu.Lock()
	defer limit.mu.Unlock()

	if limit.limiter.AllowN(now, 1) {
		return true
	}

	if now.Sub(limit.warnedAt) > warningInterval {
		limit.warnedAt = now
		if rl.warner != nil {
			rl.warner.Send(chatID, rl.message, nil)
		}
	}
	return false
}

func (rl *RateLimiterMiddleware) limitFor(userID int64) *userLimit {
	key := strconv.FormatInt(userID, 10)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.limits.Get(key); ok {
		// refresh expiration on activity
		rl.limits.SetDefault(key, v)
		return v.(*userLimit)
	}

	limit := &userLimit{limiter: rate.NewLimiter(rl.every, rl.burst)}
	rl.limits.SetDefault(key, limit)
	return limit
}

// ids extracts user and chat of an update, zero when absent
func ids(update tgbotapi.Update) (userID, chatID int64) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID, update.Message.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		return update.CallbackQuery.From.ID, update.CallbackQuery.Message.Chat.ID
	}
	return 0, 0
}
