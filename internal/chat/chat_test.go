package chat_test

import (
	"log/slog"
	"sort"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/chat"
	"github.com/freshnest/backoffice/internal/user"
)

func TestChat(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Chat Suite")
}

type mockRepo struct {
	conversations map[int64]*chat.Conversation
	messages      map[int64]*chat.Message
	nextConvID    int64
	nextMsgID     int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		conversations: map[int64]*chat.Conversation{},
		messages:      map[int64]*chat.Message{},
		nextConvID:    1,
		nextMsgID:     1,
	}
}

func (m *mockRepo) GetConversationByPair(a, b int64) (*chat.Conversation, error) {
	for _, c := range m.conversations {
		if c.ParticipantA == a && c.ParticipantB == b {
			return c, nil
		}
	}
	return nil, internal.NewNotFoundError("conversation not found", internal.ErrCodeRecordNotFound)
}

func (m *mockRepo) CreateConversation(c *chat.Conversation) error {
	c.ID = m.nextConvID
	m.nextConvID++
	m.conversations[c.ID] = c
	return nil
}

func (m *mockRepo) GetConversation(id int64) (*chat.Conversation, error) {
	if c, ok := m.conversations[id]; ok {
		return c, nil
	}
	return nil, internal.NewNotFoundError("conversation not found", internal.ErrCodeRecordNotFound)
}

func (m *mockRepo) ListConversations(userID int64) ([]*chat.Conversation, error) {
	var out []*chat.Conversation
	for _, c := range m.conversations {
		if c.HasParticipant(userID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockRepo) TouchConversation(id int64) error { return nil }

func (m *mockRepo) CreateMessage(msg *chat.Message) error {
	msg.ID = m.nextMsgID
	m.nextMsgID++
	m.messages[msg.ID] = msg
	return nil
}

func (m *mockRepo) ListMessages(conversationID int64, filter chat.ListMessagesFilter) ([]*chat.Message, error) {
	var out []*chat.Message
	for _, msg := range m.messages {
		if msg.ConversationID != conversationID {
			continue
		}
		if filter.Before > 0 && msg.ID >= filter.Before {
			continue
		}
		out = append(out, msg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > filter.Limit {
		out = out[len(out)-filter.Limit:]
	}
	return out, nil
}

func (m *mockRepo) ListForeignUnread(conversationID, userID int64) ([]*chat.Message, error) {
	var out []*chat.Message
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID && msg.SenderID != userID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockRepo) UpdateMessage(msg *chat.Message) error {
	m.messages[msg.ID] = msg
	return nil
}

func (m *mockRepo) LastMessage(conversationID int64) (*chat.Message, error) {
	var last *chat.Message
	for _, msg := range m.messages {
		if msg.ConversationID != conversationID {
			continue
		}
		if last == nil || msg.ID > last.ID {
			last = msg
		}
	}
	if last == nil {
		return nil, internal.NewNotFoundError("no messages", internal.ErrCodeRecordNotFound)
	}
	return last, nil
}

func (m *mockRepo) CountForeignUnread(conversationID, userID int64) (int64, error) {
	messages, _ := m.ListForeignUnread(conversationID, userID)
	var unread int64
	for _, msg := range messages {
		if err := msg.UnpackReadBy(); err != nil {
			continue
		}
		if !msg.ReadByUser(userID) {
			unread++
		}
	}
	return unread, nil
}

type mockUsers struct {
	users map[int64]*user.User
}

func (m *mockUsers) GetByID(id int64) (*user.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
}

var _ = Describe("AllowedPair", func() {
	It("permits admin with staff or supplier", func() {
		Expect(chat.AllowedPair(user.RoleAdmin, user.RoleStaff)).To(BeTrue())
		Expect(chat.AllowedPair(user.RoleAdmin, user.RoleSupplier)).To(BeTrue())
		Expect(chat.AllowedPair(user.RoleStaff, user.RoleAdmin)).To(BeTrue())
		Expect(chat.AllowedPair(user.RoleSupplier, user.RoleAdmin)).To(BeTrue())
	})

	It("denies sideways and customer chats", func() {
		Expect(chat.AllowedPair(user.RoleStaff, user.RoleStaff)).To(BeFalse())
		Expect(chat.AllowedPair(user.RoleStaff, user.RoleSupplier)).To(BeFalse())
		Expect(chat.AllowedPair(user.RoleAdmin, user.RoleUser)).To(BeFalse())
		Expect(chat.AllowedPair(user.RoleUser, user.RoleAdmin)).To(BeFalse())
	})
})

var _ = Describe("Service", func() {
	const (
		adminID    = int64(1)
		staffID    = int64(20)
		supplierID = int64(30)
	)

	var (
		repo    *mockRepo
		service *chat.Service
	)

	BeforeEach(func() {
		repo = newMockRepo()
		users := &mockUsers{users: map[int64]*user.User{
			adminID:    {ID: adminID, Role: user.RoleAdmin},
			staffID:    {ID: staffID, Role: user.RoleStaff},
			supplierID: {ID: supplierID, Role: user.RoleSupplier},
		}}
		service = chat.NewService(repo, users, slog.Default())
	})

	Describe("OpenConversation", func() {
		It("creates once and dedupes from either side", func() {
			c1, err := service.OpenConversation(adminID, user.RoleAdmin, staffID)
			Expect(err).NotTo(HaveOccurred())

			c2, err := service.OpenConversation(staffID, user.RoleStaff, adminID)
			Expect(err).NotTo(HaveOccurred())
			Expect(c2.ID).To(Equal(c1.ID))
			Expect(repo.conversations).To(HaveLen(1))
		})

		It("denies disallowed role pairs", func() {
			_, err := service.OpenConversation(staffID, user.RoleStaff, supplierID)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeConversationDenied))
		})

		It("denies talking to yourself", func() {
			_, err := service.OpenConversation(adminID, user.RoleAdmin, adminID)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("messaging", func() {
		var conv *chat.Conversation

		BeforeEach(func() {
			var err error
			conv, err = service.OpenConversation(adminID, user.RoleAdmin, staffID)
			Expect(err).NotTo(HaveOccurred())
		})

		It("records sender, receiver and the sender's own read mark", func() {
			m, err := service.Send(adminID, conv.ID, chat.SendMessageDTO{Body: "restock tomorrow?"})
			Expect(err).NotTo(HaveOccurred())
			Expect(m.ReceiverID).To(Equal(staffID))
			Expect(m.ReadBy).To(Equal([]int64{adminID}))
		})

		It("rejects writers who are not participants", func() {
			_, err := service.Send(supplierID, conv.ID, chat.SendMessageDTO{Body: "hi"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeNotParticipant))
		})

		It("returns pages ascending with a before cursor", func() {
			for _, body := range []string{"one", "two", "three", "four"} {
				_, err := service.Send(adminID, conv.ID, chat.SendMessageDTO{Body: body})
				Expect(err).NotTo(HaveOccurred())
			}

			page, err := service.Messages(staffID, conv.ID, chat.ListMessagesFilter{Limit: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(page).To(HaveLen(2))
			Expect(page[0].Body).To(Equal("three"))
			Expect(page[1].Body).To(Equal("four"))

			older, err := service.Messages(staffID, conv.ID, chat.ListMessagesFilter{Before: page[0].ID, Limit: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(older[0].Body).To(Equal("one"))
			Expect(older[1].Body).To(Equal("two"))
		})

		It("derives unread counts and clears them on mark-as-read", func() {
			_, err := service.Send(adminID, conv.ID, chat.SendMessageDTO{Body: "ping"})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Send(adminID, conv.ID, chat.SendMessageDTO{Body: "pong"})
			Expect(err).NotTo(HaveOccurred())

			list, err := service.MyConversations(staffID)
			Expect(err).NotTo(HaveOccurred())
			Expect(list[0].Unread).To(Equal(int64(2)))
			Expect(list[0].LastMessage.Body).To(Equal("pong"))

			Expect(service.MarkRead(staffID, conv.ID)).To(Succeed())

			list, err = service.MyConversations(staffID)
			Expect(err).NotTo(HaveOccurred())
			Expect(list[0].Unread).To(BeZero())
		})
	})
})
