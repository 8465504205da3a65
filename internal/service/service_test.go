package service

import (
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/cache"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/config"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/models"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/storage"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/mocks"
	"golang.org/x/crypto/bcrypt"
)

// fakeClock — управляемые часы для TTL кэша и срока действия токенов.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func testAuthCfg() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:  "unit-secret",
		TokenTTL:   24 * time.Hour,
		Issuer:     "news-gateway",
		BcryptCost: bcrypt.MinCost,
	}
}

func testCacheCfg() config.CacheConfig {
	return config.CacheConfig{
		ArticlesTTL: 300 * time.Second,
		SourcesTTL:  3600 * time.Second,
	}
}

// newTestSvc собирает сервис над произвольным хранилищем с управляемыми часами.
func newTestSvc(users storage.Users, news NewsClient) (*Service, *fakeClock) {
	clk := newFakeClock()
	svc := New(users, news, testAuthCfg(), testCacheCfg())
	svc.now = clk.Now
	svc.SetCache(cache.NewMemory[*models.NewsResponse](cache.WithClock(clk.Now)))
	return svc, clk
}

// newSvc — сервис на моках хранилища и провайдера.
func newSvc(t *testing.T) (*Service, *mocks.MockUsers, *mocks.MockNewsClient, *fakeClock) {
	t.Helper()
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUsers(ctrl)
	news := mocks.NewMockNewsClient(ctrl)
	svc, clk := newTestSvc(users, news)
	return svc, users, news, clk
}
