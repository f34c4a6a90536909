// Copyright (c) 2026 Nix Games.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package questions

import (
	"fmt"
	"math/rand"

	"github.com/nixgames/trivia-rooms/models"
)

// Deterministic question banks served when no API key is configured or
// the model call fails. Generation must always resolve; a room is never
// left stuck in the generating phase.

var fallbackBank = []models.Question{
	{
		Question:     "Which planet is known as the Red Planet?",
		Choices:      []string{"Mars", "Venus", "Jupiter", "Mercury"},
		CorrectIndex: 0,
	},
	{
		Question:     "What is the capital of Australia?",
		Choices:      []string{"Sydney", "Melbourne", "Canberra", "Perth"},
		CorrectIndex: 2,
	},
	{
		Question:     "Which composer wrote the Four Seasons?",
		Choices:      []string{"Mozart", "Vivaldi", "Bach", "Beethoven"},
		CorrectIndex: 1,
	},
	{
		Question: "What does CPU stand for?",
		Choices: []string{
			"Central Processing Unit",
			"Computer Personal Utility",
			"Central Parallel Utility",
			"Core Processing Usage",
		},
		CorrectIndex: 0,
	},
	{
		Question:     "Which movie features the quote \"May the Force be with you\"?",
		Choices:      []string{"Star Trek", "Avatar", "Star Wars", "Dune"},
		CorrectIndex: 2,
	},
}

var emojiFallbackBank = []models.Question{
	{
		Question:     "🦁👑",
		Choices:      []string{"The Lion King", "The Jungle Book", "Madagascar", "Tarzan"},
		CorrectIndex: 0,
	},
	{
		Question:     "🧪⚗️👨‍🔬",
		Choices:      []string{"Biology", "Physics", "Chemistry", "Medicine"},
		CorrectIndex: 2,
	},
	{
		Question:     "🍕🇮🇹",
		Choices:      []string{"Pizza", "Pasta", "Gelato", "Risotto"},
		CorrectIndex: 0,
	},
	{
		Question:     "🎸🎵🎤",
		Choices:      []string{"Concert", "Orchestra", "Opera", "Musical"},
		CorrectIndex: 0,
	},
	{
		Question:     "🏀🏆🏅",
		Choices:      []string{"Basketball Championship", "Soccer Finals", "Tennis Tournament", "Baseball League"},
		CorrectIndex: 0,
	},
}

var fallbackThemes = []string{
	"Trivia from the year 2000",
	"Questions only a pirate would know",
	"Impossible facts about breakfast cereals",
	"Facts stranger than fiction",
}

var personalityFallbackPrompts = []string{
	"Who is most likely to be late?",
	"Who would survive longest on a desert island?",
	"Who can do the most push-ups?",
	"Who is most likely to become famous?",
	"Who would win a staring contest?",
}

// FallbackQuestions returns count questions from the built-in bank for
// the mode, cycling when count exceeds the bank size.
func FallbackQuestions(mode models.GameMode, count int, playerNames []string) []models.Question {
	if mode == models.ModePersonality {
		return personalityFallback(count, playerNames)
	}

	bank := fallbackBank
	if mode == models.ModeEmoji {
		bank = emojiFallbackBank
	}
	out := make([]models.Question, count)
	for i := 0; i < count; i++ {
		out[i] = bank[i%len(bank)]
	}
	return out
}

func personalityFallback(count int, playerNames []string) []models.Question {
	if len(playerNames) == 0 {
		playerNames = []string{"Player 1", "Player 2", "Player 3", "Player 4"}
	}
	out := make([]models.Question, count)
	for i := 0; i < count; i++ {
		choices := make([]string, len(playerNames))
		copy(choices, playerNames)
		out[i] = models.Question{
			Question: personalityFallbackPrompts[i%len(personalityFallbackPrompts)],
			Choices:  choices,
		}
	}
	return out
}

// FallbackTheme picks one of the canned surprise themes.
func FallbackTheme() string {
	return fallbackThemes[rand.Intn(len(fallbackThemes))]
}

// validateCount bounds the requested question count to the allowed
// range.
func validateCount(count int) error {
	if count < models.MinQuestionCount || count > models.MaxQuestionCount {
		return fmt.Errorf("count must be between %d and %d", models.MinQuestionCount, models.MaxQuestionCount)
	}
	return nil
}
