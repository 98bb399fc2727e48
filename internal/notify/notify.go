// Package notify доставляет пользовательские уведомления об исходе операций.
//
// Каждая операция ядра сообщает ровно одно уведомление об успехе или об
// ошибке. Куда оно уходит, определяет реализация Notifier: в журнал,
// в RabbitMQ для внешнего рассыльщика или в несколько мест сразу.
package notify

import "log/slog"

// Notifier описывает получателя пользовательских уведомлений.
type Notifier interface {
	// Success сообщает об успешном завершении операции event.
	Success(event, message string)
	// Failure сообщает о неуспехе операции event.
	Failure(event, message string)
}

// LogNotifier пишет уведомления в структурированный журнал.
type LogNotifier struct {
	log *slog.Logger
}

// NewLogNotifier создаёт LogNotifier поверх переданного логгера.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Success пишет информационную запись с событием и сообщением.
func (n *LogNotifier) Success(event, message string) {
	n.log.Info("notification", slog.String("event", event), slog.String("message", message))
}

// Failure пишет запись об ошибке с событием и сообщением.
func (n *LogNotifier) Failure(event, message string) {
	n.log.Error("notification", slog.String("event", event), slog.String("message", message))
}

// MultiNotifier рассылает каждое уведомление всем вложенным получателям.
type MultiNotifier struct {
	notifiers []Notifier
}

// NewMultiNotifier создаёт MultiNotifier над списком получателей.
func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

// Success передаёт уведомление об успехе каждому получателю.
func (n *MultiNotifier) Success(event, message string) {
	for _, inner := range n.notifiers {
		inner.Success(event, message)
	}
}

// Failure передаёт уведомление об ошибке каждому получателю.
func (n *MultiNotifier) Failure(event, message string) {
	for _, inner := range n.notifiers {
		inner.Failure(event, message)
	}
}
