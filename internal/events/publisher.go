// Package events публикует доменные события сервиса в брокер сообщений.
//
// Потребители (нотификации, аналитика) подписываются на обменник
// account.events и получают события по ключам маршрутизации.
package events

import (
	"github.com/streadway/amqp"

	"github.com/anonchat/account-service/internal/lib/rabbitmq"
	"github.com/anonchat/account-service/internal/services/upgrade"
)

// Publisher отправляет события учётных записей через AMQP-канал.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher создаёт новый Publisher поверх открытого канала.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// PremiumGranted публикует событие о выдаче премиума.
func (p *Publisher) PremiumGranted(event upgrade.PremiumGrantedEvent) error {
	return rabbitmq.PublishMessage(p.ch, rabbitmq.AccountEventsExchange,
		rabbitmq.RoutingKeyPremiumGranted, event)
}
