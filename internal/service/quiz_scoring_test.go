package service

import (
	"circlemeet_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformAnswers(choice string) map[string]string {
	answers := make(map[string]string, len(QuizQuestionCodes))
	for _, code := range QuizQuestionCodes {
		answers[code] = choice
	}
	return answers
}

func TestScoreQuizAllLowEnergy(t *testing.T) {
	outcome, err := ScoreQuiz(uniformAnswers("A"))
	require.NoError(t, err)

	for _, code := range QuizQuestionCodes {
		assert.Equal(t, 0, outcome.Scores[code])
	}
	for _, spec := range dimensionTable {
		assert.Equal(t, 0, outcome.Dimensions[spec.Key])
	}
	assert.Equal(t, "Calm", outcome.Labels["stimulation"])
	assert.Equal(t, "Small groups", outcome.Labels["group_size"])
	assert.Equal(t, "Short meetups", outcome.Labels["endurance"])
	assert.Equal(t, "Structured", outcome.Labels["structure"])
	assert.Equal(t, "Deep", outcome.Labels["connection"])
	assert.Equal(t, StyleDeepConnector, outcome.StyleTag)
}

func TestScoreQuizAllHighEnergy(t *testing.T) {
	outcome, err := ScoreQuiz(uniformAnswers("C"))
	require.NoError(t, err)

	for _, spec := range dimensionTable {
		assert.Equal(t, 100, outcome.Dimensions[spec.Key])
	}
	assert.Equal(t, "Lively", outcome.Labels["stimulation"])
	assert.Equal(t, "Large groups", outcome.Labels["group_size"])
	assert.Equal(t, "Long meetups", outcome.Labels["endurance"])
	assert.Equal(t, "Spontaneous", outcome.Labels["structure"])
	assert.Equal(t, "Light & playful", outcome.Labels["connection"])
	assert.Equal(t, StyleSocialSpark, outcome.StyleTag)
}

func TestScoreQuizAllMiddle(t *testing.T) {
	outcome, err := ScoreQuiz(uniformAnswers("B"))
	require.NoError(t, err)

	for _, spec := range dimensionTable {
		assert.Equal(t, 50, outcome.Dimensions[spec.Key])
	}
	assert.Equal(t, "Balanced", outcome.Labels["stimulation"])
	assert.Equal(t, StyleBalancedConnector, outcome.StyleTag)
}

func TestScoreQuizAveragesPairedQuestions(t *testing.T) {
	answers := uniformAnswers("A")
	answers["Q1"] = "A" // 0
	answers["Q4"] = "C" // 100 -> stimulation avg 50
	answers["Q3"] = "B" // 50
	answers["Q8"] = "A" // 0  -> endurance avg 25

	outcome, err := ScoreQuiz(answers)
	require.NoError(t, err)

	assert.Equal(t, 50, outcome.Dimensions["stimulation"])
	assert.Equal(t, "Balanced", outcome.Labels["stimulation"])
	assert.Equal(t, 25, outcome.Dimensions["endurance"])
	assert.Equal(t, "Short meetups", outcome.Labels["endurance"])
}

func TestScoreQuizStyleThresholds(t *testing.T) {
	// group_size、structure、connection 三个维度高档，另外两个低档
	answers := map[string]string{
		"Q1": "A", "Q4": "A",
		"Q3": "A", "Q8": "A",
		"Q2": "C",
		"Q5": "C",
		"Q6": "C", "Q7": "C",
	}
	outcome, err := ScoreQuiz(answers)
	require.NoError(t, err)
	assert.Equal(t, StyleSocialSpark, outcome.StyleTag)

	// 高档（stimulation、group_size）和低档（endurance、structure）都不过三，落在均衡档
	answers = map[string]string{
		"Q1": "C", "Q4": "C",
		"Q2": "C",
		"Q3": "A", "Q8": "A",
		"Q5": "A",
		"Q6": "B", "Q7": "B",
	}
	outcome, err = ScoreQuiz(answers)
	require.NoError(t, err)
	assert.Equal(t, StyleBalancedConnector, outcome.StyleTag)
}

func TestScoreQuizDeterministic(t *testing.T) {
	answers := map[string]string{
		"Q1": "B", "Q2": "C", "Q3": "A", "Q4": "C",
		"Q5": "B", "Q6": "A", "Q7": "C", "Q8": "B",
	}
	first, err := ScoreQuiz(answers)
	require.NoError(t, err)
	second, err := ScoreQuiz(answers)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScoreQuizRejectsIncompleteInput(t *testing.T) {
	missing := uniformAnswers("B")
	delete(missing, "Q5")
	_, err := ScoreQuiz(missing)
	assert.ErrorIs(t, err, util.ErrIncompleteAnswers)

	invalid := uniformAnswers("B")
	invalid["Q3"] = "D"
	_, err = ScoreQuiz(invalid)
	assert.ErrorIs(t, err, util.ErrIncompleteAnswers)

	extra := uniformAnswers("B")
	extra["Q9"] = "A"
	_, err = ScoreQuiz(extra)
	assert.ErrorIs(t, err, util.ErrIncompleteAnswers)

	_, err = ScoreQuiz(nil)
	assert.ErrorIs(t, err, util.ErrIncompleteAnswers)
}

func TestIsCompleteAnswers(t *testing.T) {
	assert.True(t, IsCompleteAnswers(uniformAnswers("A")))
	assert.False(t, IsCompleteAnswers(map[string]string{"Q1": "A"}))
	assert.False(t, IsCompleteAnswers(nil))

	lower := uniformAnswers("B")
	lower["Q2"] = "b"
	assert.False(t, IsCompleteAnswers(lower))
}

func TestBandBoundaries(t *testing.T) {
	assert.Equal(t, 0, bandOf(0))
	assert.Equal(t, 0, bandOf(33))
	assert.Equal(t, 1, bandOf(34))
	assert.Equal(t, 1, bandOf(66))
	assert.Equal(t, 2, bandOf(67))
	assert.Equal(t, 2, bandOf(100))
}

func TestDimensionValueRounding(t *testing.T) {
	scores := map[string]int{"Q1": 0, "Q4": 50}
	assert.Equal(t, 25, dimensionValue(scores, []string{"Q1", "Q4"}))

	scores = map[string]int{"Q6": 50, "Q7": 100}
	assert.Equal(t, 75, dimensionValue(scores, []string{"Q6", "Q7"}))
}
