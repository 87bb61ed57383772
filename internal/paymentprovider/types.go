package paymentprovider

// Статусы платёжной ссылки, которые возвращает шлюз.
// Любое другое значение трактуется вызывающей стороной как "не оплачено".
const (
	StatusCreated   = "created"
	StatusPaid      = "paid"
	StatusExpired   = "expired"
	StatusCancelled = "cancelled"
)

// Customer данные плательщика для платёжной ссылки.
type Customer struct {
	Name string `json:"name"`
}

// Notify настройки уведомлений плательщика со стороны шлюза.
type Notify struct {
	SMS   bool `json:"sms"`
	Email bool `json:"email"`
}

// CreateLinkRequest представляет запрос на создание платёжной ссылки.
type CreateLinkRequest struct {
	Amount         int64    `json:"amount"`   // Сумма в минорных единицах валюты
	Currency       string   `json:"currency"` // Например "INR"
	Description    string   `json:"description"`
	Customer       Customer `json:"customer"`
	Notify         Notify   `json:"notify"`
	ReminderEnable bool     `json:"reminder_enable"`
	CallbackURL    string   `json:"callback_url,omitempty"`
	CallbackMethod string   `json:"callback_method,omitempty"`
}

// PaymentLink представляет платёжную ссылку в ответах шлюза.
type PaymentLink struct {
	ID       string `json:"id"`        // Идентификатор ссылки
	ShortURL string `json:"short_url"` // Ссылка для оплаты
	Status   string `json:"status"`    // created | paid | expired | cancelled
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}
