package services

import (
	"fmt"
	"html"
	"log"
	"strings"
	"sync"
	"time"

	"tourism-backend/config"
	"tourism-backend/models"

	mail "github.com/xhit/go-simple-mail/v2"
)

// MailMessage is one outgoing email.
type MailMessage struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// MailQueue is what the booking ledger needs from the mailer.
type MailQueue interface {
	Enqueue(MailMessage) bool
}

// Mailer sends mail from a single background goroutine so requests never
// wait on SMTP. Without SMTP settings it only logs what it would send.
type Mailer struct {
	smtp  config.SMTPConfig
	queue chan MailMessage
	send  func(MailMessage) error

	wg        sync.WaitGroup
	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

func NewMailer(cfg config.SMTPConfig, buffer int) *Mailer {
	if buffer <= 0 {
		buffer = 64
	}
	m := &Mailer{smtp: cfg, queue: make(chan MailMessage, buffer)}
	if cfg.Enabled() {
		m.send = m.sendSMTP
	} else {
		m.send = mockSend
	}
	return m
}

// WithSender replaces the transport; tests use it to capture messages.
func (m *Mailer) WithSender(send func(MailMessage) error) *Mailer {
	m.send = send
	return m
}

func (m *Mailer) Start() {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for msg := range m.queue {
			if err := m.send(msg); err != nil {
				log.Printf("❌ mail to %s failed: %v", msg.To, err)
			}
		}
	}()
}

// Enqueue drops the message and returns false if the queue is full or closed.
func (m *Mailer) Enqueue(msg MailMessage) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return false
	}
	select {
	case m.queue <- msg:
		return true
	default:
		log.Printf("⚠️ mail queue full, dropping message to %s", msg.To)
		return false
	}
}

// Close stops accepting messages and waits for queued ones to be sent.
func (m *Mailer) Close() {
	m.closeOnce.Do(func() {
		m.mu.Lock()
		m.closed = true
		close(m.queue)
		m.mu.Unlock()
	})
	m.wg.Wait()
}

func mockSend(msg MailMessage) error {
	log.Printf("[MOCK EMAIL] to:%s subject:%q", msg.To, msg.Subject)
	return nil
}

func (m *Mailer) sendSMTP(msg MailMessage) error {
	server := mail.NewSMTPClient()
	server.Host = m.smtp.Host
	server.Port = m.smtp.Port
	server.Username = m.smtp.Username
	server.Password = m.smtp.Password
	if m.smtp.Port == 465 {
		server.Encryption = mail.EncryptionSSLTLS
	} else {
		server.Encryption = mail.EncryptionSTARTTLS
	}
	server.KeepAlive = false
	server.ConnectTimeout = 10 * time.Second
	server.SendTimeout = 10 * time.Second

	client, err := server.Connect()
	if err != nil {
		return fmt.Errorf("smtp connect: %w", err)
	}
	defer client.Close()

	email := mail.NewMSG()
	email.SetFrom(m.smtp.From).AddTo(msg.To).SetSubject(msg.Subject)
	email.SetBody(mail.TextPlain, msg.Text)
	if msg.HTML != "" {
		email.AddAlternative(mail.TextHTML, msg.HTML)
	}
	if email.Error != nil {
		return email.Error
	}
	return email.Send(client)
}

// BookingConfirmation renders the guest's confirmation for booking at hotel.
func BookingConfirmation(booking *models.Booking, hotel *models.Place) MailMessage {
	safe := func(s string) string {
		return strings.NewReplacer("\r", " ", "\n", " ").Replace(strings.TrimSpace(s))
	}
	start := models.FormatDate(booking.StartDate)
	end := models.FormatDate(booking.EndDate)
	guest := safe(booking.GuestName)
	hotelName := safe(hotel.Name)

	text := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Your booking #%d at %s is confirmed.\n"+
			"Room %d, from %s to %s (check-out day).\n",
		guest, booking.ID, hotelName, booking.RoomNumber, start, end,
	)
	body := fmt.Sprintf(`<!doctype html>
<html>
<body style="font-family:Arial, Helvetica, sans-serif; color:#222;">
<h2>Booking confirmed</h2>
<p>Hi %s,</p>
<p>Your booking <strong>#%d</strong> at <strong>%s</strong> is confirmed.</p>
<p>Room %d, from %s to %s (check-out day).</p>
</body>
</html>`,
		html.EscapeString(guest), booking.ID, html.EscapeString(hotelName), booking.RoomNumber, start, end,
	)

	return MailMessage{
		To:      booking.GuestEmail,
		Subject: fmt.Sprintf("Booking #%d confirmed: %s", booking.ID, hotelName),
		Text:    text,
		HTML:    body,
	}
}
