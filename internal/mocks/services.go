package mocks

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"helperhive/internal/domain/entity"
	"helperhive/internal/usecase"
	"helperhive/pkg/errors"
)

// MockAuthClient is an in-memory identity provider. Tokens are "token-<uid>".
type MockAuthClient struct {
	mu        sync.Mutex
	accounts  map[string]*mockAccount
	byEmail   map[string]string
	revoked   map[string]bool
	seq       int
	ResetBase string

	SignInFunc func(ctx context.Context, email, password string) (*usecase.Session, error)
}

type mockAccount struct {
	uid      string
	email    string
	password string
	verified bool
}

func NewMockAuthClient() *MockAuthClient {
	return &MockAuthClient{
		accounts:  make(map[string]*mockAccount),
		byEmail:   make(map[string]string),
		revoked:   make(map[string]bool),
		ResetBase: "https://auth.example.test/reset",
	}
}

func (m *MockAuthClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byEmail[email]; ok {
		return "", errors.Conflict("email already in use", nil)
	}
	m.seq++
	uid := fmt.Sprintf("uid-%d", m.seq)
	m.accounts[uid] = &mockAccount{uid: uid, email: email, password: password}
	m.byEmail[email] = uid
	return uid, nil
}

func (m *MockAuthClient) SignInWithEmailPassword(ctx context.Context, email, password string) (*usecase.Session, error) {
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, email, password)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	uid, ok := m.byEmail[email]
	if !ok || m.accounts[uid].password != password {
		return nil, errors.Unauthorized("invalid email or password", nil)
	}
	delete(m.revoked, uid)
	return &usecase.Session{UserID: uid, IDToken: "token-" + uid, RefreshToken: "refresh-" + uid, ExpiresIn: 3600}, nil
}

func (m *MockAuthClient) VerifyToken(ctx context.Context, idToken string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for uid := range m.accounts {
		if idToken == "token-"+uid {
			if m.revoked[uid] {
				return "", errors.Unauthorized("token revoked", nil)
			}
			return uid, nil
		}
	}
	return "", errors.Unauthorized("invalid token", nil)
}

func (m *MockAuthClient) GetIdentity(ctx context.Context, uid string) (*usecase.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[uid]
	if !ok {
		return nil, errors.NotFound("account", nil)
	}
	return &usecase.Identity{UserID: uid, Email: acc.email, EmailVerified: acc.verified}, nil
}

func (m *MockAuthClient) RevokeSessions(ctx context.Context, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.revoked[uid] = true
	return nil
}

func (m *MockAuthClient) PasswordResetLink(ctx context.Context, email string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byEmail[email]; !ok {
		return "", errors.NotFound("account", nil)
	}
	return m.ResetBase + "?email=" + email, nil
}

// MarkVerified flips the email-verified flag for uid.
func (m *MockAuthClient) MarkVerified(uid string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[uid]; ok {
		acc.verified = true
	}
}

// AddAccount registers an existing identity under a fixed uid.
func (m *MockAuthClient) AddAccount(uid, email, password string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[uid] = &mockAccount{uid: uid, email: email, password: password}
	m.byEmail[email] = uid
}

type MockBlobStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Err     error
}

func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{Objects: make(map[string][]byte)}
}

func (m *MockBlobStore) Upload(ctx context.Context, path, contentType string, r io.Reader) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[path] = data
	return "https://blobs.example.test/" + path, nil
}

type SentMail struct {
	To      string
	Subject string
	Body    string
}

type MockMailer struct {
	mu   sync.Mutex
	Sent []SentMail
	Err  error
}

func (m *MockMailer) Send(ctx context.Context, to, subject, plainText, html string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentMail{To: to, Subject: subject, Body: plainText})
	return nil
}

// MockCache is a map-backed Cache that ignores TTLs.
type MockCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	GetFunc func(ctx context.Context, key string) ([]byte, bool, error)
	Hits    int
	Misses  int
}

func NewMockCache() *MockCache {
	return &MockCache{data: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if ok {
		m.Hits++
	} else {
		m.Misses++
	}
	return val, ok, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type PublishedMessage struct {
	Subject string
	Data    []byte
}

type MockPublisher struct {
	mu        sync.Mutex
	Published []PublishedMessage
	Err       error
}

func (m *MockPublisher) Publish(subject string, data []byte) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, PublishedMessage{Subject: subject, Data: data})
	return nil
}

type MockPusher struct {
	mu     sync.Mutex
	Pushed map[string][][]byte
}

func NewMockPusher() *MockPusher {
	return &MockPusher{Pushed: make(map[string][][]byte)}
}

func (m *MockPusher) SendToUser(userID string, message []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Pushed[userID] = append(m.Pushed[userID], message)
}

// MockNotifier records notifications instead of dispatching them.
type MockNotifier struct {
	mu   sync.Mutex
	Sent []*entity.Notification
}

func (m *MockNotifier) Notify(ctx context.Context, n *entity.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, n)
}

func (m *MockNotifier) For(recipientID string) []*entity.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Notification
	for _, n := range m.Sent {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out
}

// MockRateLimiter allows everything unless Deny is set.
type MockRateLimiter struct {
	Deny bool
}

func (m *MockRateLimiter) Allow(userID, action string) (bool, time.Duration) {
	if m.Deny {
		return false, time.Second
	}
	return true, 0
}
