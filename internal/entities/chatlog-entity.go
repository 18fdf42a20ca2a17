package entities

import "time"

// ChatLog - запись диалога с AI-ассистентом. Пишется один раз,
// удаляется пакетно задачей очистки по возрасту.
type ChatLog struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}
