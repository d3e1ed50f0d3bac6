package emotion

import "regexp"

// emotionOrder fixes the iteration order over the trigger table so that
// scoring and tie-breaking are deterministic across runs.
var emotionOrder = []string{
	"happy", "sad", "angry", "fear", "surprise", "disgust",
	"excited", "calm", "love", "confident", "lonely", "nostalgic",
}

// triggerWords drives candidate scoring: every occurrence of a trigger in the
// input contributes to that emotion's raw score.
var triggerWords = map[string][]string{
	"happy":     {"happy", "joy", "joyful", "glad", "cheerful", "delighted", "content", "pleased", "elated", "ecstatic", "blissful", "euphoric"},
	"sad":       {"sad", "unhappy", "depressed", "melancholy", "gloomy", "sorrowful", "downcast", "dejected", "heartbroken", "miserable"},
	"angry":     {"angry", "mad", "furious", "rage", "irritated", "annoyed", "frustrated", "livid", "enraged", "hostile", "resentful"},
	"fear":      {"afraid", "scared", "fearful", "anxious", "worried", "nervous", "terrified", "panicked", "frightened", "apprehensive"},
	"surprise":  {"surprised", "shocked", "amazed", "astonished", "startled", "stunned", "bewildered", "astounded"},
	"disgust":   {"disgusted", "revolted", "repulsed", "sick", "nauseated", "appalled", "horrified"},
	"excited":   {"excited", "thrilled", "enthusiastic", "energetic", "pumped", "hyped", "eager", "passionate"},
	"calm":      {"calm", "peaceful", "relaxed", "serene", "tranquil", "composed", "zen", "balanced"},
	"love":      {"love", "adore", "cherish", "affection", "romantic", "devoted", "passionate", "infatuated"},
	"confident": {"confident", "sure", "certain", "determined", "assertive", "bold", "self-assured"},
	"lonely":    {"lonely", "isolated", "alone", "solitary", "abandoned", "desolate", "forlorn"},
	"nostalgic": {"nostalgic", "memories", "reminisce", "remember", "miss", "yearning", "wistful"},
}

// confidenceWords is a second, independently tuned table used only to boost
// the confidence of the already-selected primary emotion. It overlaps with
// triggerWords but is deliberately kept separate: the two lists serve
// different stages and have drifted apart over time.
var confidenceWords = map[string][]string{
	"happy":     {"happy", "joy", "glad", "excited", "wonderful", "amazing", "great", "fantastic", "love"},
	"sad":       {"sad", "depressed", "down", "unhappy", "miserable", "heartbroken", "disappointed"},
	"angry":     {"angry", "furious", "mad", "annoyed", "frustrated", "irritated", "hate"},
	"fear":      {"scared", "afraid", "anxious", "worried", "nervous", "terrified", "panic"},
	"love":      {"love", "adore", "cherish", "care", "affection", "heart", "romantic"},
	"excited":   {"excited", "thrilled", "pumped", "energetic", "enthusiastic"},
	"calm":      {"calm", "peaceful", "relaxed", "serene", "tranquil", "zen"},
	"confident": {"confident", "sure", "ready", "capable", "strong", "determined"},
}

// intensityRE matches emphasis markers that make a text read as more
// emotionally expressive; used by the clarity heuristic.
var intensityRE = regexp.MustCompile(`(?i)\b(very|extremely|really|so|absolutely|totally|completely|incredibly|amazing|terrible|awful|wonderful|fantastic|horrible)\b`)
