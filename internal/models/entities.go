// models содержит сущности ресурсов удалённого REST-бэкенда и DTO списков.
//
// Особенности:
//   - Id назначает бэкенд; клиент его не генерирует и не меняет;
//   - json-теги в camelCase, но декодирование регистронезависимое
//     (PascalCase от части эндпойнтов тоже принимается);
//   - неизвестные поля игнорируются.
package models

// Run — игровая сессия (ран) на площадке.
type Run struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Location    string  `json:"location,omitempty"`
	Address     string  `json:"address,omitempty"`
	City        string  `json:"city,omitempty"`
	State       string  `json:"state,omitempty"`
	ZipCode     string  `json:"zipCode,omitempty"`
	RunDate     Time    `json:"runDate"`
	StartTime   string  `json:"startTime,omitempty"`
	EndTime     string  `json:"endTime,omitempty"`
	Points      int     `json:"points"`
	MaxPlayers  int     `json:"maxPlayers"`
	PlayerCount int     `json:"playerCount"`
	SkillLevel  string  `json:"skillLevel,omitempty"`
	Status      string  `json:"status,omitempty"`
	IsPublic    bool    `json:"isPublic"`
	Price       float64 `json:"price,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	CreatedDate Time    `json:"createdDate"`
}

// RunSummary — строка списка ранов в курсорной выдаче.
type RunSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	City        string `json:"city,omitempty"`
	RunDate     Time   `json:"runDate"`
	Points      int    `json:"points"`
	PlayerCount int    `json:"playerCount"`
	MaxPlayers  int    `json:"maxPlayers"`
	Status      string `json:"status,omitempty"`
}

// Game — матч внутри рана.
type Game struct {
	ID          string `json:"id"`
	RunID       string `json:"runId"`
	Name        string `json:"name,omitempty"`
	TeamA       string `json:"teamA,omitempty"`
	TeamB       string `json:"teamB,omitempty"`
	ScoreA      int    `json:"scoreA"`
	ScoreB      int    `json:"scoreB"`
	Winner      string `json:"winner,omitempty"`
	Status      string `json:"status,omitempty"`
	GameDate    Time   `json:"gameDate"`
	CreatedDate Time   `json:"createdDate"`
}

// User — профиль игрока или администратора.
type User struct {
	ID          string  `json:"id"`
	UserName    string  `json:"userName"`
	Email       string  `json:"email"`
	FirstName   string  `json:"firstName,omitempty"`
	LastName    string  `json:"lastName,omitempty"`
	Role        string  `json:"role,omitempty"`
	Points      int     `json:"points"`
	Rating      float64 `json:"rating"`
	City        string  `json:"city,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	IsActive    bool    `json:"isActive"`
	CreatedDate Time    `json:"createdDate"`
}

// UserSummary — строка списка пользователей в курсорной выдаче.
type UserSummary struct {
	ID       string  `json:"id"`
	UserName string  `json:"userName"`
	Email    string  `json:"email"`
	Points   int     `json:"points"`
	Rating   float64 `json:"rating"`
	IsActive bool    `json:"isActive"`
}

// Product — товар магазина.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	CreatedDate Time    `json:"createdDate"`
}

// Video — ролик медиатеки.
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	VideoURL     string `json:"videoUrl,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Duration     int    `json:"duration"`
	Views        int    `json:"views"`
	CreatedDate  Time   `json:"createdDate"`
}

// Post — запись блога.
type Post struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Slug          string `json:"slug,omitempty"`
	Author        string `json:"author,omitempty"`
	Content       string `json:"content,omitempty"`
	Category      string `json:"category,omitempty"`
	ImageURL      string `json:"imageUrl,omitempty"`
	Status        string `json:"status,omitempty"`
	PublishedDate Time   `json:"publishedDate"`
}

// Request — заявка игрока на участие в ране.
type Request struct {
	ID          string `json:"id"`
	RunID       string `json:"runId"`
	UserID      string `json:"userId"`
	Status      string `json:"status,omitempty"`
	Message     string `json:"message,omitempty"`
	CreatedDate Time   `json:"createdDate"`
}

// Subscription — платная подписка пользователя.
type Subscription struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	Plan      string  `json:"plan"`
	Price     float64 `json:"price"`
	Status    string  `json:"status,omitempty"`
	StartDate Time    `json:"startDate"`
	EndDate   Time    `json:"endDate"`
}

// PrivateRun — закрытый ран по приглашению.
type PrivateRun struct {
	ID          string `json:"id"`
	RunID       string `json:"runId,omitempty"`
	OwnerID     string `json:"ownerId"`
	Name        string `json:"name"`
	AccessCode  string `json:"accessCode,omitempty"`
	InviteOnly  bool   `json:"inviteOnly"`
	MaxPlayers  int    `json:"maxPlayers"`
	RunDate     Time   `json:"runDate"`
	CreatedDate Time   `json:"createdDate"`
}

// JoinedRun — факт участия пользователя в ране.
type JoinedRun struct {
	ID         string `json:"id"`
	RunID      string `json:"runId"`
	UserID     string `json:"userId"`
	Status     string `json:"status,omitempty"`
	JoinedDate Time   `json:"joinedDate"`
}

// Client — организация-клиент (площадка, лига).
type Client struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Company     string `json:"company,omitempty"`
	Status      string `json:"status,omitempty"`
	CreatedDate Time   `json:"createdDate"`
}

// Report — жалоба или отчёт модерации.
type Report struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type,omitempty"`
	Status      string `json:"status,omitempty"`
	ReportedBy  string `json:"reportedBy,omitempty"`
	TargetID    string `json:"targetId,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedDate Time   `json:"createdDate"`
}
