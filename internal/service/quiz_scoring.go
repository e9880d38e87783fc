package service

import (
	"circlemeet_backend/internal/util"
	"math"
)

// 社交节奏问卷的打分规则。纯计算，不做任何 I/O：
// 服务端存档和客户端实时预览共用同一份逻辑，保证结果一致。

const QuizVersion = "social-rhythm-v1"

// 风格标签：高能标签 >=3 个为 Social Spark，低能标签 >=3 个为 Deep Connector
const (
	StyleSocialSpark       = "Social Spark"
	StyleDeepConnector     = "Deep Connector"
	StyleBalancedConnector = "Balanced Connector"
)

// 每题三档选项对应的分值
var answerScores = map[string]int{
	"A": 0,
	"B": 50,
	"C": 100,
}

// QuizQuestionCodes 问卷的 8 个固定题号
var QuizQuestionCodes = []string{"Q1", "Q2", "Q3", "Q4", "Q5", "Q6", "Q7", "Q8"}

// dimensionSpec 维度的声明式定义：参与计算的题目和低/中/高三档标签。
// 题目配对写成表而不是内联算式，映射关系可以独立于取整和分档单测。
type dimensionSpec struct {
	Key       string
	Questions []string
	Labels    [3]string // 低/中/高
}

var dimensionTable = []dimensionSpec{
	{Key: "stimulation", Questions: []string{"Q1", "Q4"}, Labels: [3]string{"Calm", "Balanced", "Lively"}},
	{Key: "group_size", Questions: []string{"Q2"}, Labels: [3]string{"Small groups", "Medium groups", "Large groups"}},
	{Key: "endurance", Questions: []string{"Q3", "Q8"}, Labels: [3]string{"Short meetups", "Half-day", "Long meetups"}},
	{Key: "structure", Questions: []string{"Q5"}, Labels: [3]string{"Structured", "Flexible", "Spontaneous"}},
	{Key: "connection", Questions: []string{"Q6", "Q7"}, Labels: [3]string{"Deep", "Mixed", "Light & playful"}},
}

// QuizOutcome 一次打分的完整结果，时间戳和提交人由调用方补
type QuizOutcome struct {
	Scores     map[string]int    `json:"scores"`
	Dimensions map[string]int    `json:"dimensions"`
	Labels     map[string]string `json:"labels"`
	StyleTag   string            `json:"styleTag"`
}

// IsCompleteAnswers 8 题是否全部作答且取值合法。
// 打分函数从不在不完整的输入上调用，预览场景据此返回"暂无结果"。
func IsCompleteAnswers(answers map[string]string) bool {
	if len(answers) != len(QuizQuestionCodes) {
		return false
	}
	for _, code := range QuizQuestionCodes {
		if _, ok := answerScores[answers[code]]; !ok {
			return false
		}
	}
	return true
}

// ScoreQuiz 把 8 个选项映射为 5 个维度分和风格标签。
// 输入不完整时返回 ErrIncompleteAnswers，调用方应当先用 IsCompleteAnswers 预检。
func ScoreQuiz(answers map[string]string) (*QuizOutcome, error) {
	if !IsCompleteAnswers(answers) {
		return nil, util.ErrIncompleteAnswers
	}

	scores := make(map[string]int, len(QuizQuestionCodes))
	for _, code := range QuizQuestionCodes {
		scores[code] = answerScores[answers[code]]
	}

	dimensions := make(map[string]int, len(dimensionTable))
	labels := make(map[string]string, len(dimensionTable))
	highCount, lowCount := 0, 0

	for _, spec := range dimensionTable {
		value := dimensionValue(scores, spec.Questions)
		dimensions[spec.Key] = value

		band := bandOf(value)
		labels[spec.Key] = spec.Labels[band]
		switch band {
		case 0:
			lowCount++
		case 2:
			highCount++
		}
	}

	style := StyleBalancedConnector
	if highCount >= 3 {
		style = StyleSocialSpark
	} else if lowCount >= 3 {
		style = StyleDeepConnector
	}

	return &QuizOutcome{
		Scores:     scores,
		Dimensions: dimensions,
		Labels:     labels,
		StyleTag:   style,
	}, nil
}

// dimensionValue 参与题目的均分，四舍五入并夹在 [0,100]
func dimensionValue(scores map[string]int, questions []string) int {
	sum := 0
	for _, q := range questions {
		sum += scores[q]
	}
	value := int(math.Round(float64(sum) / float64(len(questions))))
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	return value
}

// bandOf 分档阈值：<=33 低，34-66 中，>66 高
func bandOf(value int) int {
	switch {
	case value <= 33:
		return 0
	case value <= 66:
		return 1
	default:
		return 2
	}
}
