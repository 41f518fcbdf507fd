package assistant

import (
	"github.com/kalambet/dolater/internal/content"
	"github.com/kalambet/dolater/internal/intent"
)

var pools = map[intent.Kind][]string{
	intent.Greeting: {
		"Hi! I'm here to help you organize and take action on your saved content. What would you like to work on?",
		"Hello! I can help you create plans, organize content, and turn your saves into actionable steps. How can I assist you today?",
		"Hey there! Ready to turn your saved content into something actionable? What's on your mind?",
	},
	intent.Productivity: {
		"Improving productivity is all about smart workflows! I can help you set up systems or extract productivity tips from your saves.",
		"Let's enhance your productivity! Ready to organize your resources into a focused action plan?",
		"You're looking to get more done. Let's prioritize your tasks and help you stay efficient.",
	},
	intent.Reading: {
		"It sounds like you want to organize your reading list. I can group your articles and books, set up a reading schedule, or summarize your most important saves.",
		"Let's help you stay on top of your reading! Would you like a summary, plan, or recommendations from your saved reading content?",
		"I'm ready to organize and prioritize your reading list so nothing gets lost.",
	},
	intent.Reminder: {
		"I can help you set reminders or extract action steps that you can add to your own reminder system.",
		"Staying on track is easier with good reminders. Want to turn your to-dos into scheduled alerts?",
		"I can organize your action items and suggest how to schedule reminders in your favorite tool.",
	},
	intent.Goals: {
		"Setting goals is the first step! I can help turn your saved ideas into clear objectives and suggest actionable next steps.",
		"Let's break your goals into milestones using your saved content.",
		"Ready to turn your aspirations into structured goals? I'm here to help organize them into achievable action plans!",
	},
	intent.Motivation: {
		"A little motivation goes a long way! Would you like to see a quote or find inspiration in your saved content?",
		"Let's find your drive. Do you want encouraging words, or should I highlight inspiring content from your saves?",
		"Here's a motivational boost: 'The secret of getting ahead is getting started.'",
	},
	intent.SelfImprovement: {
		"Working on self-improvement? Let's organize your resources into a personal growth routine.",
		"Personal development is a journey. I'll help you set priorities and find actionable steps from your saves.",
		"Ready to level up? I can structure your self-improvement content to help you build better habits.",
	},
	intent.Quote: {
		"Here's a quote for you: 'Success is not final, failure is not fatal: It is the courage to continue that counts.' (Winston Churchill)",
		"Whenever you need inspiration, just ask for a quote!",
		"Stay motivated: 'Your limitation is only your imagination.'",
	},
	intent.Action: {
		"Let's turn your tasks into action! I can break down your to-do list and help you plan the next steps.",
		"Taking action is key. Ready to create some actionable items from your saved content?",
		"Let's organize your action items for momentum!",
	},
	intent.Fallback: {
		"I can help you organize your saved content into actionable plans. Try asking me to create a plan, summarize content, or build a routine!",
		"I'm here to help turn your saves into action! I can create plans, organize content by category, or suggest next steps.",
		"Let me help you make the most of your saved content. I can organize, summarize, or create action plans from your saves.",
	},
}

// Pool returns the canned phrasings used for kind, or nil when replies for
// kind are generated from the user's items instead.
func Pool(kind intent.Kind) []string {
	p, ok := pools[kind]
	if !ok {
		return nil
	}
	out := make([]string, len(p))
	copy(out, p)
	return out
}

// GeneralSuggestions are offered after greetings, help and unmatched input.
func GeneralSuggestions() []string {
	return []string{
		"Create a plan from my saves",
		"Summarize my content",
		"Help me get organized",
		"What should I do first?",
	}
}

var defaultSuggestions = []string{
	"Create an action plan",
	"Organize by priority",
	"Set up reminders",
}

var categorySuggestions = map[content.Category][]string{
	content.Fitness: {
		"Create a weekly workout schedule",
		"Organize exercises by muscle group",
		"Build a beginner-friendly routine",
	},
	content.Finance: {
		"Create a monthly budget plan",
		"Organize savings strategies",
		"Build an investment roadmap",
	},
	content.Knowledge: {
		"Create a learning schedule",
		"Organize topics by priority",
		"Build a study timeline",
	},
	content.Personal: {
		"Create daily habits",
		"Organize goals by timeline",
		"Build a personal routine",
	},
	content.Work: {
		"Create a productivity system",
		"Organize tasks by priority",
		"Build a work schedule",
	},
}

var readingSuggestions = []string{
	"Summarize my reading list",
	"Prioritize saved articles",
	"Suggest top books to start",
}

var goalSuggestions = []string{
	"Break down my goals",
	"Set up goal milestones",
	"Suggest actions for my goals",
}

var motivationSuggestions = []string{
	"Send me a quote",
	"Find inspiring content",
	"Boost my motivation",
}

var topicSuggestions = map[intent.Kind][]string{
	intent.Productivity:    categorySuggestions[content.Work],
	intent.Reading:         readingSuggestions,
	intent.Reminder:        defaultSuggestions,
	intent.Goals:           goalSuggestions,
	intent.Motivation:      motivationSuggestions,
	intent.SelfImprovement: categorySuggestions[content.Personal],
	intent.Quote:           motivationSuggestions,
	intent.Action:          defaultSuggestions,
}

func suggestionsFor(c content.Category) []string {
	if s, ok := categorySuggestions[c]; ok {
		return clone(s)
	}
	return clone(defaultSuggestions)
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

const helpText = `I'm Genie, your DoLater assistant! Here's what I can help you with:

📋 **Create Plans** - Turn your saves into step-by-step action plans
📊 **Organize Content** - Group your saves by category or topic
📝 **Summarize** - Get quick overviews of your saved content
🎯 **Build Routines** - Create workout, study, or daily routines
💡 **Suggest Actions** - Get specific next steps for your goals

Just ask me things like:
• "Create a workout plan from my fitness saves"
• "Summarize my finance content"
• "Build a learning schedule"
• "Organize my recipes into meal plans"`
