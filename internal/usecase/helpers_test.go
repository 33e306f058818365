package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/require"

	"charityconnect/internal/adapter/repository/memory"
	"charityconnect/internal/domain/entity"
	"charityconnect/internal/infrastructure/events"
	"charityconnect/internal/infrastructure/metrics"
)

type recordingPublisher struct {
	mutex  sync.Mutex
	events []events.Event
	reject bool
}

func (p *recordingPublisher) Publish(evt events.Event) bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.reject {
		return false
	}
	p.events = append(p.events, evt)
	return true
}

func (p *recordingPublisher) counters() []CounterChanged {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	out := []CounterChanged{}
	for _, evt := range p.events {
		if c, ok := evt.(CounterChanged); ok {
			out = append(out, c)
		}
	}
	return out
}

// stepClock advances one second per call so ledger timestamps are strictly ordered.
type stepClock struct {
	mutex sync.Mutex
	t     time.Time
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type harness struct {
	donors    *memory.DonorRepository
	charities *memory.CharityRepository
	messages  *memory.MessageRepository
	profiles  *memory.ProfileRepository
	publisher *recordingPublisher
	metrics   *metrics.Metrics
	clock     *stepClock

	messageUC *MessageUseCase
	donorUC   *DonorUseCase
	charityUC *CharityUseCase
	profileUC *ProfileUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := slogt.New(t)

	h := &harness{
		donors:    memory.NewDonorRepository(),
		charities: memory.NewCharityRepository(),
		messages:  memory.NewMessageRepository(),
		profiles:  memory.NewProfileRepository(),
		publisher: &recordingPublisher{},
		metrics:   metrics.New(),
		clock:     newStepClock(),
	}

	directory := NewDirectory(h.donors, h.charities)
	h.messageUC = NewMessageUseCase(h.messages, directory, h.publisher, nil, h.metrics, logger)
	h.messageUC.now = h.clock.Now
	h.donorUC = NewDonorUseCase(h.donors, h.charities, h.publisher, logger)
	h.donorUC.now = h.clock.Now
	h.charityUC = NewCharityUseCase(h.charities, h.profiles, nil, h.publisher, logger)
	h.charityUC.now = h.clock.Now
	h.profileUC = NewProfileUseCase(h.profiles, h.donors, h.charities, logger)
	h.profileUC.now = h.clock.Now
	return h
}

func (h *harness) addDonor(t *testing.T, id, name string) *entity.Donor {
	t.Helper()
	donor := &entity.Donor{ID: id, Name: name, Email: id + "@donors.test"}
	require.NoError(t, h.donors.Create(context.Background(), donor))
	return donor
}

func (h *harness) addCharity(t *testing.T, id, name string) *entity.Charity {
	t.Helper()
	charity := &entity.Charity{ID: id, Name: name, Email: id + "@charities.test"}
	require.NoError(t, h.charities.Create(context.Background(), charity))
	return charity
}

func sendInput(from string, fromModel entity.Role, to string, toModel entity.Role, text string) SendMessageInput {
	return SendMessageInput{
		From:      from,
		FromModel: fromModel.String(),
		To:        to,
		ToModel:   toModel.String(),
		Text:      text,
	}
}
