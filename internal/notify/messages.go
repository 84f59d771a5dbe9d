package notify

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// LoanConfirmation builds the message sent when a loan is created.
func LoanConfirmation(memberName, bookTitle, bookAuthor string, dueDate time.Time) (subject, body string) {
	subject = "Book Loan Confirmation"
	body = fmt.Sprintf(
		"Dear %s,\n\n"+
			"You have borrowed %q by %s.\n"+
			"Due date: %s.\n\n"+
			"Thank you for using our library services.",
		memberName, bookTitle, bookAuthor, dueDate.Format(dateLayout))
	return subject, body
}

// OverdueNotice builds the message sent by the overdue sweep.
func OverdueNotice(memberName, bookTitle, bookAuthor string, dueDate time.Time, daysOverdue int, fine decimal.Decimal) (subject, body string) {
	subject = fmt.Sprintf("OVERDUE: Your library book is %d days late", daysOverdue)
	body = fmt.Sprintf(
		"Dear %s,\n\n"+
			"Our records show that you have not returned the following item:\n\n"+
			"Title: %s\n"+
			"Author: %s\n"+
			"Due Date: %s\n"+
			"Days Overdue: %d\n"+
			"Current Fine: $%s\n\n"+
			"Please return this item as soon as possible to avoid additional fines.",
		memberName, bookTitle, bookAuthor, dueDate.Format(dateLayout), daysOverdue, fine.StringFixed(2))
	return subject, body
}

// FineNotice builds the message sent when a book comes back late.
func FineNotice(memberName, bookTitle, bookAuthor string, daysLate int, fine decimal.Decimal) (subject, body string) {
	subject = "Overdue Book Return - Fine Notice"
	body = fmt.Sprintf(
		"Dear %s,\n\n"+
			"You have returned %q by %s %d days late.\n"+
			"A fine of $%s has been applied to your account.\n\n"+
			"Thank you for using our library services.",
		memberName, bookTitle, bookAuthor, daysLate, fine.StringFixed(2))
	return subject, body
}

// ReturnConfirmation builds the message sent when a book comes back on time.
func ReturnConfirmation(memberName, bookTitle, bookAuthor string, returnDate time.Time) (subject, body string) {
	subject = "Book Return Confirmation"
	body = fmt.Sprintf(
		"Dear %s,\n\n"+
			"We confirm that you have returned the following item:\n\n"+
			"Title: %s\n"+
			"Author: %s\n"+
			"Return Date: %s\n\n"+
			"Thank you for using our library services.",
		memberName, bookTitle, bookAuthor, returnDate.Format(dateLayout))
	return subject, body
}

// DueSoonReminder builds the message sent by the upcoming-due sweep.
func DueSoonReminder(memberName, bookTitle, bookAuthor string, dueDate time.Time, daysRemaining int) (subject, body string) {
	subject = fmt.Sprintf("Reminder: Your library book is due in %d days", daysRemaining)
	body = fmt.Sprintf(
		"Dear %s,\n\n"+
			"This is a friendly reminder that the following item is due soon:\n\n"+
			"Title: %s\n"+
			"Author: %s\n"+
			"Due Date: %s\n\n"+
			"Please return this item on or before the due date to avoid late fees.",
		memberName, bookTitle, bookAuthor, dueDate.Format(dateLayout))
	return subject, body
}
