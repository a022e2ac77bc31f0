package models

import (
	"encoding/json"
)

// Decode разбирает ответ бэкенда в DTO: имена полей сопоставляются без учёта
// регистра (Id, id, ID), неизвестные поля игнорируются.
//
// goccy/go-json здесь не подходит: на структурах с большим числом полей
// (Run) он сопоставляет ключи только по точному совпадению тега.
func Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
