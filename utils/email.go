package utils

import (
	"fmt"
	"os"
	"strconv"

	"backend/models"

	"gopkg.in/gomail.v2"
)

func SendEmail(to, subject, body string) error {
	from := os.Getenv("SMTP_FROM")
	host := os.Getenv("SMTP_HOST")
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 465
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(host, port, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASSWORD"))

	return d.DialAndSend(m)
}

// SendBookingConfirmation mails the customer their booking details and the
// public link. Callers run it in a goroutine; a failed mail never fails the
// booking.
func SendBookingConfirmation(booking models.Booking, deskLabel string) error {
	if booking.Customer.Email == "" {
		return nil
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nYour desk booking is confirmed.\n\nDesk: %s\nFrom: %s\nTo: %s\nAmount: %.2f\n\nManage your booking here:\n%s\n",
		booking.Customer.Name,
		deskLabel,
		booking.StartTime.Format("02 Jan 2006 15:04"),
		booking.EndTime.Format("02 Jan 2006 15:04"),
		booking.TotalAmount,
		booking.PublicURL,
	)

	return SendEmail(booking.Customer.Email, "Your desk booking", body)
}
