package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"
)

type sentNotification struct {
	Event   NotificationEvent
	Payload NotificationPayload
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (n *fakeNotifier) Notify(_ context.Context, event NotificationEvent, payload NotificationPayload) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{Event: event, Payload: payload})
}

func (n *fakeNotifier) events() []NotificationEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]NotificationEvent, 0, len(n.sent))
	for _, s := range n.sent {
		out = append(out, s.Event)
	}
	return out
}

type fakeEmailSender struct {
	sent []*mail.SGMailV3
	ctxs []context.Context
	err  error
	// block, when set, holds every send until it is closed.
	block chan struct{}
}

func (f *fakeEmailSender) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	if f.block != nil {
		<-f.block
	}
	f.sent = append(f.sent, email)
	f.ctxs = append(f.ctxs, ctx)
	if f.err != nil {
		return nil, f.err
	}
	return &rest.Response{StatusCode: 202}, nil
}

type fakeSMSSender struct {
	sent []*twilioApi.CreateMessageParams
}

func (f *fakeSMSSender) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.sent = append(f.sent, params)
	return &twilioApi.ApiV2010Message{}, nil
}

type memorySlotCache struct {
	mu          sync.Mutex
	entries     map[string][]models.SlotAvailability
	generations map[string]int64
	hits        int
	invalidated int
	dropped     int
}

func newMemorySlotCache() *memorySlotCache {
	return &memorySlotCache{
		entries:     map[string][]models.SlotAvailability{},
		generations: map[string]int64{},
	}
}

func (c *memorySlotCache) Get(_ context.Context, propertyID uuid.UUID, date time.Time) ([]models.SlotAvailability, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := slotCacheKey(propertyID, date)
	slots, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return slots, c.generations[key], ok
}

func (c *memorySlotCache) Set(_ context.Context, propertyID uuid.UUID, date time.Time, gen int64, slots []models.SlotAvailability) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := slotCacheKey(propertyID, date)
	if c.generations[key] != gen {
		c.dropped++
		return
	}
	c.entries[key] = slots
}

func (c *memorySlotCache) Invalidate(_ context.Context, propertyID uuid.UUID, date time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := slotCacheKey(propertyID, date)
	delete(c.entries, key)
	c.generations[key]++
	c.invalidated++
}

func (c *memorySlotCache) cached(propertyID uuid.UUID, date time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[slotCacheKey(propertyID, date)]
	return ok
}
