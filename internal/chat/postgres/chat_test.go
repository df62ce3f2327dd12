package postgres_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/chat"
	"github.com/freshnest/backoffice/internal/chat/postgres"
)

func TestChatRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Chat Repository Suite")
}

func openTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	Expect(err).NotTo(HaveOccurred())
	Expect(db.AutoMigrate(&chat.Conversation{}, &chat.Message{})).To(Succeed())
	return db
}

var _ = Describe("ChatRepository", func() {
	var repo chat.Repository

	BeforeEach(func() {
		repo = postgres.NewChatRepository(openTestDB())
	})

	Describe("conversations", func() {
		It("stores and finds a conversation by its ordered pair", func() {
			c := &chat.Conversation{ParticipantA: 2, ParticipantB: 9}
			Expect(repo.CreateConversation(c)).To(Succeed())
			Expect(c.ID).NotTo(BeZero())

			found, err := repo.GetConversationByPair(2, 9)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.ID).To(Equal(c.ID))
		})

		It("returns a typed not found error for a missing pair", func() {
			_, err := repo.GetConversationByPair(1, 2)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeRecordNotFound))
		})

		It("rejects a duplicate pair", func() {
			Expect(repo.CreateConversation(&chat.Conversation{ParticipantA: 2, ParticipantB: 9})).To(Succeed())
			Expect(repo.CreateConversation(&chat.Conversation{ParticipantA: 2, ParticipantB: 9})).NotTo(Succeed())
		})

		It("lists conversations for either participant", func() {
			Expect(repo.CreateConversation(&chat.Conversation{ParticipantA: 2, ParticipantB: 9})).To(Succeed())
			Expect(repo.CreateConversation(&chat.Conversation{ParticipantA: 3, ParticipantB: 9})).To(Succeed())
			Expect(repo.CreateConversation(&chat.Conversation{ParticipantA: 4, ParticipantB: 5})).To(Succeed())

			mine, err := repo.ListConversations(9)
			Expect(err).NotTo(HaveOccurred())
			Expect(mine).To(HaveLen(2))
		})
	})

	Describe("messages", func() {
		var conv *chat.Conversation

		BeforeEach(func() {
			conv = &chat.Conversation{ParticipantA: 2, ParticipantB: 9}
			Expect(repo.CreateConversation(conv)).To(Succeed())
		})

		send := func(senderID, receiverID int64, body string) *chat.Message {
			m := &chat.Message{
				ConversationID: conv.ID,
				SenderID:       senderID,
				ReceiverID:     receiverID,
				Body:           body,
				ReadBy:         []int64{senderID},
			}
			Expect(m.PackReadBy()).To(Succeed())
			Expect(repo.CreateMessage(m)).To(Succeed())
			return m
		}

		It("pages newest-first but returns each page chronologically", func() {
			for _, body := range []string{"one", "two", "three", "four"} {
				send(2, 9, body)
			}

			page, err := repo.ListMessages(conv.ID, chat.ListMessagesFilter{Limit: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect([]string{page[0].Body, page[1].Body}).To(Equal([]string{"three", "four"}))

			older, err := repo.ListMessages(conv.ID, chat.ListMessagesFilter{Before: page[0].ID, Limit: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect([]string{older[0].Body, older[1].Body}).To(Equal([]string{"one", "two"}))
		})

		It("counts unread from the other side only", func() {
			send(2, 9, "hello")
			send(2, 9, "anyone there?")
			send(9, 2, "yes")

			unread, err := repo.CountForeignUnread(conv.ID, 9)
			Expect(err).NotTo(HaveOccurred())
			Expect(unread).To(Equal(int64(2)))

			unread, err = repo.CountForeignUnread(conv.ID, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(unread).To(Equal(int64(1)))
		})

		It("drops a message from the unread count once the reader is appended", func() {
			m := send(2, 9, "ping")

			m.ReadBy = append(m.ReadBy, 9)
			Expect(m.PackReadBy()).To(Succeed())
			Expect(repo.UpdateMessage(m)).To(Succeed())

			unread, err := repo.CountForeignUnread(conv.ID, 9)
			Expect(err).NotTo(HaveOccurred())
			Expect(unread).To(BeZero())
		})

		It("returns the newest message as the conversation preview", func() {
			send(2, 9, "first")
			send(9, 2, "latest")

			last, err := repo.LastMessage(conv.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(last.Body).To(Equal("latest"))
		})
	})
})
