// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// DefaultAIModel is used when a room does not name a model. Fast and
// cheap, good enough for quick trivia.
const DefaultAIModel = "gpt-4o-mini"

// AIModel describes one selectable question-generation model.
type AIModel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AIModels is the catalog shown to hosts. The IDs are opaque to the
// game core and passed through to the generator.
var AIModels = []AIModel{
	{ID: "gpt-5.1", Name: "GPT-5.1 (Flagship)", Description: "Best for rich story, complex questions"},
	{ID: "gpt-4.1", Name: "GPT-4.1", Description: "Strong general model for detailed content"},
	{ID: "gpt-4.1-mini", Name: "GPT-4.1 Mini", Description: "Cheaper, good enough for most questions"},
	{ID: DefaultAIModel, Name: "GPT-4o Mini (Fast)", Description: "Fast + cheap, great for quick trivia"},
	{ID: "gpt-5.1-mini", Name: "GPT-5.1 Mini", Description: "Good balance of speed & quality"},
	{ID: "o4-mini", Name: "O4 Mini (Reasoning)", Description: "Best for puzzles & logic questions"},
}

// Themes is the built-in theme catalog for standard mode.
var Themes = []string{
	"General Knowledge",
	"History",
	"Geography",
	"Movies",
	"TV Shows",
	"Music",
	"Sports",
	"Science",
	"Technology",
	"Video Games",
	"Internet Culture & Memes",
	"Animals & Nature",
	"Food & Cooking",
	"Travel & World Cities",
	"Literature & Books",
	"Art & Famous Paintings",
	"Fashion & Style",
	"Business & Startups",
	"Crypto & Web3",
	"Fitness & Health",
	"Guess the Emoji Meaning",
	"Name That Song",
	"Riddles & Brain Teasers",
	"This or That",
}
