package models

import "encoding/json"

// Room status constants
const (
	StatusLobby      = "lobby"
	StatusGenerating = "generating"
	StatusQuestion   = "question"
	StatusResults    = "results"
	StatusFinal      = "final"
)

// GameMode selects how questions are generated and scored.
type GameMode string

const (
	ModeStandard    GameMode = "standard"
	ModeEmoji       GameMode = "emoji"
	ModePersonality GameMode = "personality"
	ModeCustom      GameMode = "custom"
)

// Valid reports whether m is one of the known game modes.
func (m GameMode) Valid() bool {
	switch m {
	case ModeStandard, ModeEmoji, ModePersonality, ModeCustom:
		return true
	}
	return false
}

// Difficulty controls the base point value of each question.
type Difficulty string

const (
	DifficultyEasy       Difficulty = "easy"
	DifficultyMedium     Difficulty = "medium"
	DifficultyHard       Difficulty = "hard"
	DifficultyImpossible Difficulty = "impossible"
)

// DifficultyPoints maps each difficulty to the base points awarded for
// a correct answer, before the speed bonus.
var DifficultyPoints = map[Difficulty]int{
	DifficultyEasy:       10,
	DifficultyMedium:     20,
	DifficultyHard:       35,
	DifficultyImpossible: 50,
}

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	_, ok := DifficultyPoints[d]
	return ok
}

// Question count bounds enforced at the API boundary. The UI recommends
// 3-15 but the hard limits are wider.
const (
	MinQuestionCount = 1
	MaxQuestionCount = 20
)

// Domain types

// Player is one participant in a room. The ID is generated at join time
// and stable for the session; Score only changes during round-end
// scoring.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Question is a single round's prompt. Choices has exactly four entries
// in standard/emoji modes and one entry per player in personality mode,
// where CorrectIndex is a meaningless placeholder.
type Question struct {
	Question     string   `json:"question"`
	Choices      []string `json:"choices"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation,omitempty"`
}

// Response is a player's answer to the current question. Remaining is
// the seconds left on the answering client's countdown at submission
// time and feeds the speed bonus. VotedFor is set in personality mode
// only and holds the player ID the chosen option maps to.
type Response struct {
	AnswerIndex int     `json:"answerIndex"`
	Remaining   float64 `json:"remaining"`
	VotedFor    string  `json:"votedFor,omitempty"`
}

// Room is the single source of truth for one game session. The whole
// document is persisted and propagated as a unit; there is no
// field-level merge between clients.
type Room struct {
	Code            string              `json:"code"`
	HostName        string              `json:"hostName"`
	GameMode        GameMode            `json:"gameMode"`
	Theme           string              `json:"theme"`
	GeneratedTheme  string              `json:"generatedTheme,omitempty"`
	AIModel         string              `json:"aiModel"`
	Difficulty      Difficulty          `json:"difficulty"`
	QuestionCount   int                 `json:"questionCount"`
	TimePerQuestion int                 `json:"timePerQuestion"`
	Players         []Player            `json:"players"`
	Questions       []Question          `json:"questions"`
	CurrentIndex    int                 `json:"currentIndex"`
	Status          string              `json:"status"`
	Responses       map[string]Response `json:"responses"`
	LastGain        map[string]int      `json:"lastGain"`
}

// Clone returns a deep copy of the room. Controllers mutate clones and
// persist them whole, so shared slices and maps must never alias.
func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	out := *r
	out.Players = make([]Player, len(r.Players))
	copy(out.Players, r.Players)
	out.Questions = make([]Question, len(r.Questions))
	for i, q := range r.Questions {
		cq := q
		cq.Choices = make([]string, len(q.Choices))
		copy(cq.Choices, q.Choices)
		out.Questions[i] = cq
	}
	out.Responses = make(map[string]Response, len(r.Responses))
	for id, resp := range r.Responses {
		out.Responses[id] = resp
	}
	out.LastGain = make(map[string]int, len(r.LastGain))
	for id, gain := range r.LastGain {
		out.LastGain[id] = gain
	}
	return &out
}

// CurrentQuestion returns the question CurrentIndex points at, or nil
// when out of range.
func (r *Room) CurrentQuestion() *Question {
	if r.CurrentIndex < 0 || r.CurrentIndex >= len(r.Questions) {
		return nil
	}
	return &r.Questions[r.CurrentIndex]
}

// PlayerByID returns the player with the given ID, or nil.
func (r *Room) PlayerByID(id string) *Player {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i]
		}
	}
	return nil
}

// Marshal serializes the room to its canonical wire form. Both the
// store and the stream carry this form, so byte equality of two
// marshaled rooms means the documents are identical.
func (r *Room) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// Stream event type constants
const (
	EventConnected = "connected"
	EventUpdate    = "update"
	EventError     = "error"
)

// StreamEvent frames one delivery on the push channel.
type StreamEvent struct {
	Type  string `json:"type"`
	Room  *Room  `json:"room,omitempty"`
	Error string `json:"error,omitempty"`
}

// Request types

type CreateRoomRequest struct {
	HostName        string     `json:"hostName"`
	GameMode        GameMode   `json:"gameMode"`
	Theme           string     `json:"theme"`
	AIModel         string     `json:"aiModel"`
	Difficulty      Difficulty `json:"difficulty"`
	QuestionCount   int        `json:"questionCount"`
	TimePerQuestion int        `json:"timePerQuestion"`
}

type JoinRoomRequest struct {
	Name string `json:"name"`
}

type GenerateQuestionsRequest struct {
	Theme               string     `json:"theme"`
	Difficulty          Difficulty `json:"difficulty"`
	Count               int        `json:"count"`
	AIModel             string     `json:"aiModel"`
	GameMode            GameMode   `json:"gameMode"`
	PlayerNames         []string   `json:"playerNames,omitempty"`
	ShouldGenerateTheme bool       `json:"shouldGenerateTheme,omitempty"`
}

// Response types

type CreateRoomResponse struct {
	Room    *Room  `json:"room"`
	HostKey string `json:"hostKey"`
}

type JoinRoomResponse struct {
	Player Player `json:"player"`
	Room   *Room  `json:"room"`
}

type SaveRoomResponse struct {
	Success bool `json:"success"`
}

type GenerateQuestionsResponse struct {
	Questions      []Question `json:"questions"`
	GeneratedTheme string     `json:"generatedTheme,omitempty"`
}

// CatalogResponse lists the selectable generation models and built-in
// themes so clients render the same options the server knows about.
type CatalogResponse struct {
	AIModels []AIModel `json:"aiModels"`
	Themes   []string  `json:"themes"`
}

// RoomSummary is one row of the admin room listing.
type RoomSummary struct {
	Code        string `json:"code"`
	HostName    string `json:"hostName"`
	Status      string `json:"status"`
	PlayerCount int    `json:"playerCount"`
	UpdatedAgo  string `json:"updatedAgo"`
}

// ErrorResponse is the JSON error body for every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
