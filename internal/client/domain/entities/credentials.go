// Package entities содержит доменные сущности клиента Doomscrollr.
package entities

// Канонические имена слотов хранилища учетных данных.
const (
	SlotAccessToken  = "accessToken"
	SlotRefreshToken = "refreshToken"
)

// Credentials - пара токенов сессии.
type Credentials struct {
	Access  string `json:"accessToken"`
	Refresh string `json:"refreshToken"`
}

// Empty сообщает, что в паре нет ни одного токена.
func (c Credentials) Empty() bool {
	return c.Access == "" && c.Refresh == ""
}
