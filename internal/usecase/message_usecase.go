package usecase

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"charityconnect/internal/domain/entity"
	"charityconnect/internal/domain/repository"
	"charityconnect/internal/infrastructure/metrics"
	"charityconnect/internal/infrastructure/ratelimit"
	"charityconnect/pkg/errors"
)

type MessageUseCase struct {
	messageRepo repository.MessageRepository
	directory   *Directory
	publisher   EventPublisher
	rateLimiter RateLimiter
	metrics     *metrics.Metrics
	logger      *slog.Logger
	now         func() time.Time
}

func NewMessageUseCase(
	messageRepo repository.MessageRepository,
	directory *Directory,
	publisher EventPublisher,
	rateLimiter RateLimiter,
	m *metrics.Metrics,
	logger *slog.Logger,
) *MessageUseCase {
	return &MessageUseCase{
		messageRepo: messageRepo,
		directory:   directory,
		publisher:   publisher,
		rateLimiter: rateLimiter,
		metrics:     m,
		logger:      logger,
		now:         time.Now,
	}
}

type SendMessageInput struct {
	From      string
	FromModel string
	To        string
	ToModel   string
	Text      string
}

type sentMessage struct {
	message   *entity.Message
	sender    entity.Identity
	recipient entity.Identity
}

func (in SendMessageInput) participants() (entity.Participant, entity.Participant, error) {
	if in.From == "" || in.FromModel == "" || in.To == "" || in.ToModel == "" || strings.TrimSpace(in.Text) == "" {
		return entity.Participant{}, entity.Participant{}, errors.BadRequest("Missing required fields: from, fromModel, to, toModel, text", nil)
	}
	fromRole, fromErr := entity.ParseRole(in.FromModel)
	toRole, toErr := entity.ParseRole(in.ToModel)
	if fromErr != nil || toErr != nil {
		return entity.Participant{}, entity.Participant{}, errors.BadRequest(`Invalid fromModel or toModel. Must be "Donor" or "Charity"`, nil)
	}
	return entity.Participant{ID: in.From, Role: fromRole}, entity.Participant{ID: in.To, Role: toRole}, nil
}

// send is the one write path for every message: resolve both sides, append one ledger entry,
// then queue the counter updates.
func (uc *MessageUseCase) send(ctx context.Context, input SendMessageInput) (*sentMessage, error) {
	from, to, err := input.participants()
	if err != nil {
		return nil, err
	}

	if uc.rateLimiter != nil {
		allowed, wait := uc.rateLimiter.Allow(from.Role.String()+":"+from.ID, ratelimit.ActionSendMessage)
		if !allowed {
			uc.logger.Warn("Send rate limited", "from", from.ID, "fromModel", from.Role, "wait", wait)
			return nil, errors.TooManyRequests("Rate limit exceeded. Please wait " + retryIn(wait) + " before sending another message")
		}
	}

	sender, err := uc.directory.Identity(ctx, from)
	if err != nil {
		return nil, err
	}
	recipient, err := uc.directory.Identity(ctx, to)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	message := &entity.Message{
		From:           from.ID,
		FromModel:      from.Role,
		To:             to.ID,
		ToModel:        to.Role,
		Text:           input.Text,
		Read:           false,
		ConversationID: entity.DeriveConversationID(from, to),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	uc.metrics.MessagesSent.WithLabelValues(from.Role.String(), to.Role.String()).Inc()
	uc.logger.Info("Message sent", "id", message.ID, "conversationId", message.ConversationID)

	publishCounter(uc.publisher, uc.logger, sender.Email, entity.CounterMessages, 1)
	publishCounter(uc.publisher, uc.logger, recipient.Email, entity.CounterMessages, 1)

	return &sentMessage{message: message, sender: sender, recipient: recipient}, nil
}

func (uc *MessageUseCase) SendMessage(ctx context.Context, input SendMessageInput) (*entity.Message, error) {
	sent, err := uc.send(ctx, input)
	if err != nil {
		return nil, err
	}
	return sent.message, nil
}

// SendDirect runs the same write as SendMessage and answers with display names.
func (uc *MessageUseCase) SendDirect(ctx context.Context, input SendMessageInput) (*entity.DirectMessageSummary, error) {
	sent, err := uc.send(ctx, input)
	if err != nil {
		return nil, err
	}
	return &entity.DirectMessageSummary{
		From:      sent.sender.Name,
		To:        sent.recipient.Name,
		Message:   sent.message.Text,
		Timestamp: sent.message.CreatedAt,
	}, nil
}

// GetConversation returns the pair's history oldest first. Empty roles are resolved by lookup.
func (uc *MessageUseCase) GetConversation(ctx context.Context, id1, role1, id2, role2 string) ([]*entity.Message, error) {
	a, err := uc.directory.Resolve(ctx, id1, role1)
	if err != nil {
		return nil, err
	}
	b, err := uc.directory.Resolve(ctx, id2, role2)
	if err != nil {
		return nil, err
	}

	return uc.messageRepo.ListByConversation(ctx, entity.DeriveConversationID(a, b))
}

// ListConversations assembles the entity's conversation summaries from the ledger, most recent first.
func (uc *MessageUseCase) ListConversations(ctx context.Context, id, role string) ([]entity.Conversation, error) {
	r, err := entity.ParseRole(role)
	if err != nil {
		return nil, errors.BadRequest(`Invalid role. Must be "Donor" or "Charity"`, err)
	}
	self := entity.Participant{ID: id, Role: r}

	messages, err := uc.messageRepo.ListByParticipant(ctx, self)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	parties := make(map[entity.Participant]entity.Party)
	conversations := []entity.Conversation{}

	for _, m := range messages {
		if seen[m.ConversationID] {
			continue
		}
		seen[m.ConversationID] = true

		last, err := uc.messageRepo.Latest(ctx, m.ConversationID)
		if err != nil {
			return nil, err
		}

		other := last.Sender()
		if other == self {
			other = last.Recipient()
		}

		party, ok := parties[other]
		if !ok {
			party, err = uc.party(ctx, other)
			if err != nil {
				return nil, err
			}
			parties[other] = party
		}

		unread, err := uc.messageRepo.CountUnread(ctx, m.ConversationID, self)
		if err != nil {
			return nil, err
		}

		conversations = append(conversations, entity.Conversation{
			ID:          m.ConversationID,
			LastMessage: last,
			OtherParty:  party,
			UnreadCount: unread,
		})
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].LastMessage.CreatedAt.After(conversations[j].LastMessage.CreatedAt)
	})

	uc.metrics.ConversationListings.Observe(float64(len(conversations)))
	return conversations, nil
}

// party resolves a counterpart; a deleted or unknown entity gets placeholder details.
func (uc *MessageUseCase) party(ctx context.Context, p entity.Participant) (entity.Party, error) {
	party := entity.Party{ID: p.ID, Model: p.Role, Name: entity.UnknownPartyName, Email: entity.UnknownPartyEmail}

	identity, err := uc.directory.Identity(ctx, p)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return party, nil
		}
		return party, err
	}
	party.Name = identity.Name
	party.Email = identity.Email
	return party, nil
}

// MarkRead flips every unread message of the conversation addressed to recipientID.
func (uc *MessageUseCase) MarkRead(ctx context.Context, conversationID, recipientID string) (int64, error) {
	if !entity.IsConversationID(conversationID) {
		return 0, errors.BadRequest("Invalid conversation id", nil)
	}

	modified, err := uc.messageRepo.MarkRead(ctx, conversationID, recipientID)
	if err != nil {
		return 0, err
	}

	uc.metrics.MessagesMarkedRead.Add(float64(modified))
	return modified, nil
}

// DirectMessages is the entity's message view: stored notices plus every ledger message it sent or
// received, addressed by display name, newest first.
func (uc *MessageUseCase) DirectMessages(ctx context.Context, id, model string) ([]entity.EmbeddedMessage, error) {
	r, err := entity.ParseRole(model)
	if err != nil {
		return nil, errors.BadRequest(`Invalid model. Must be "Donor" or "Charity"`, err)
	}
	self := entity.Participant{ID: id, Role: r}

	identity, notices, err := uc.directory.Notices(ctx, self)
	if err != nil {
		return nil, err
	}

	messages, err := uc.messageRepo.ListByParticipant(ctx, self)
	if err != nil {
		return nil, err
	}

	names := map[entity.Participant]string{self: identity.Name}
	name := func(p entity.Participant) (string, error) {
		if n, ok := names[p]; ok {
			return n, nil
		}
		party, err := uc.party(ctx, p)
		if err != nil {
			return "", err
		}
		names[p] = party.Name
		return party.Name, nil
	}

	view := make([]entity.EmbeddedMessage, 0, len(messages)+len(notices))
	for _, m := range messages {
		from, err := name(m.Sender())
		if err != nil {
			return nil, err
		}
		to, err := name(m.Recipient())
		if err != nil {
			return nil, err
		}
		view = append(view, entity.EmbeddedMessage{
			From:      from,
			To:        to,
			Message:   m.Text,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		})
	}
	view = append(view, notices...)

	sort.SliceStable(view, func(i, j int) bool { return view[i].CreatedAt.After(view[j].CreatedAt) })
	return view, nil
}

func retryIn(wait time.Duration) string {
	seconds := int(math.Ceil(wait.Seconds()))
	if seconds <= 1 {
		return "1 second"
	}
	return strconv.Itoa(seconds) + " seconds"
}
