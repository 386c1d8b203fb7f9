package mailer

import (
	"context"
	"time"

	"github.com/oksasatya/go-ddd-auth-service/internal/domain/entity"
	"github.com/oksasatya/go-ddd-auth-service/pkg/mailer/templates"
)

// Publisher puts a JSON message on the email queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueNotifier turns account events into email jobs on a queue.
type QueueNotifier struct {
	pub   Publisher
	brand templates.Brand
}

func NewQueueNotifier(pub Publisher, brand templates.Brand) *QueueNotifier {
	return &QueueNotifier{pub: pub, brand: brand}
}

func (n *QueueNotifier) AccountCreated(ctx context.Context, a *entity.Account) error {
	return n.pub.PublishJSON(ctx, EmailJob{
		To:       a.Email,
		Template: templates.Welcome,
		Data:     templates.NewWelcomeData(n.brand, a.Name, a.Email, templates.WithTime(a.CreatedAt)),
	})
}

func (n *QueueNotifier) SignedIn(ctx context.Context, a *entity.Account, at time.Time) error {
	return n.pub.PublishJSON(ctx, EmailJob{
		To:       a.Email,
		Template: templates.LoginNotification,
		Data:     templates.NewLoginNotificationData(n.brand, a.Name, a.Email, templates.WithTime(at)),
	})
}
