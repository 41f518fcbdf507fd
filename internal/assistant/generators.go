package assistant

import (
	"fmt"
	"strings"

	"github.com/kalambet/dolater/internal/content"
)

const (
	// DominantThreshold is the minimum group size for a category to drive a plan.
	DominantThreshold = 3

	summaryTitlesPerCategory = 3
	recipeTitles             = 3
	templateTitles           = 2
)

type group struct {
	category content.Category
	items    []content.Item
}

// groupByCategory keeps categories in the order they first appear.
func groupByCategory(items []content.Item) []group {
	var groups []group
	index := make(map[content.Category]int)
	for _, it := range items {
		c := content.ParseCategory(string(it.Category))
		i, ok := index[c]
		if !ok {
			i = len(groups)
			index[c] = i
			groups = append(groups, group{category: c})
		}
		groups[i].items = append(groups[i].items, it)
	}
	return groups
}

// dominant returns the strictly largest group when it has at least
// DominantThreshold items. Ties go to the category seen first.
func dominant(groups []group) (group, bool) {
	var best group
	for _, g := range groups {
		if len(g.items) > len(best.items) {
			best = g
		}
	}
	return best, len(best.items) >= DominantThreshold
}

func titles(items []content.Item, n int) []string {
	if len(items) < n {
		n = len(items)
	}
	out := make([]string, n)
	for i := range n {
		out[i] = items[i].Title
	}
	return out
}

func planReply(items []content.Item) Reply {
	if len(items) == 0 {
		return Reply{
			Response:    "I'd love to help you create a plan! However, I don't see any saved content to work with yet. Try saving some articles, videos, or resources first, then ask me to organize them into a plan.",
			Suggestions: []string{"Save some content first", "Browse popular content", "Start with a simple goal"},
		}
	}

	groups := groupByCategory(items)
	var b strings.Builder
	fmt.Fprintf(&b, "Great! I can create a plan from your %d saved items. ", len(items))

	if g, ok := dominant(groups); ok {
		fmt.Fprintf(&b, "I notice you have a lot of %s content. ", g.category)
		b.WriteString(categoryTemplate(g.category, g.items))
		return Reply{Response: b.String(), Suggestions: suggestionsFor(g.category)}
	}

	b.WriteString(mixedTemplate(groups))
	return Reply{Response: b.String(), Suggestions: clone(defaultSuggestions)}
}

func summaryReply(items []content.Item) Reply {
	if len(items) == 0 {
		return Reply{
			Response:    "I'd be happy to summarize your content, but I don't see any saves yet. Once you start saving articles, videos, or other content, I can create helpful summaries for you!",
			Suggestions: []string{"Save some content first", "Explore trending content", "Start with your interests"},
		}
	}

	groups := groupByCategory(items)
	var b strings.Builder
	fmt.Fprintf(&b, "Here's a summary of your %d saved items:\n\n", len(items))

	suggestions := make([]string, 0, len(groups))
	for _, g := range groups {
		fmt.Fprintf(&b, "**%s** (%d items):\n", strings.ToUpper(string(g.category)), len(g.items))
		for _, t := range titles(g.items, summaryTitlesPerCategory) {
			fmt.Fprintf(&b, "• %s\n", t)
		}
		if extra := len(g.items) - summaryTitlesPerCategory; extra > 0 {
			fmt.Fprintf(&b, "• ...and %d more\n", extra)
		}
		b.WriteString("\n")
		suggestions = append(suggestions, fmt.Sprintf("Create %s plan", g.category))
	}
	b.WriteString("Would you like me to create action plans for any specific category?")

	return Reply{Response: b.String(), Suggestions: suggestions}
}

func categoryReply(target content.Category, items []content.Item) Reply {
	needle := strings.ToLower(string(target))
	var matched []content.Item
	for _, it := range items {
		if strings.EqualFold(string(it.Category), needle) || tagContains(it.Tags, needle) {
			matched = append(matched, it)
		}
	}

	if len(matched) == 0 {
		return Reply{
			Response:    fmt.Sprintf("I don't see any %s content in your saves yet. Try saving some %s-related articles, videos, or resources, then I can help organize them!", target, target),
			Suggestions: []string{fmt.Sprintf("Save %s content", target), "Explore popular content", "Browse categories"},
		}
	}

	response := fmt.Sprintf("I found %d %s-related items! ", len(matched), target) + categoryTemplate(target, matched)
	return Reply{Response: response, Suggestions: suggestionsFor(target)}
}

func tagContains(tags []string, needle string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

var recipeTags = map[string]bool{"recipe": true, "cooking": true, "food": true}

func isRecipe(it content.Item) bool {
	if content.ParseCategory(string(it.Category)) != content.Personal {
		return false
	}
	if strings.Contains(strings.ToLower(it.Title), "recipe") {
		return true
	}
	for _, t := range it.Tags {
		if recipeTags[strings.ToLower(t)] {
			return true
		}
	}
	return false
}

func recipeReply(items []content.Item) Reply {
	var recipes []content.Item
	for _, it := range items {
		if isRecipe(it) {
			recipes = append(recipes, it)
		}
	}

	if len(recipes) == 0 {
		return Reply{
			Response:    "I don't see any recipe content in your saves yet. Try saving some recipes, cooking tips, or meal ideas, then I can help you create meal plans and shopping lists!",
			Suggestions: []string{"Save some recipes", "Explore cooking content", "Plan your meals"},
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Perfect! I found %d recipe-related saves. I can help you:

📅 **Meal Planning**: Organize your recipes into weekly meal plans
🛒 **Shopping Lists**: Extract ingredients for easy grocery shopping
👨‍🍳 **Cooking Schedule**: Plan when to prep and cook each meal
🍽️ **Meal Categories**: Group by breakfast, lunch, dinner, or cuisine type

Your saved recipes include:`, len(recipes))
	for _, t := range titles(recipes, recipeTitles) {
		fmt.Fprintf(&b, "\n• %s", t)
	}
	if extra := len(recipes) - recipeTitles; extra > 0 {
		fmt.Fprintf(&b, "\n• ...and %d more!", extra)
	}

	return Reply{
		Response:    b.String(),
		Suggestions: []string{"Create weekly meal plan", "Generate shopping list", "Organize by meal type"},
	}
}

func categoryTemplate(c content.Category, items []content.Item) string {
	examples := strings.Join(titles(items, templateTitles), ", ")
	switch c {
	case content.Fitness:
		return `Here's your fitness action plan:

🎯 **Week 1-2**: Foundation
• Start with basic exercises from your saves
• Focus on form and consistency
• Track your progress

🎯 **Week 3-4**: Build intensity
• Add more challenging workouts
• Incorporate nutrition tips you've saved
• Establish a routine

🎯 **Week 5+**: Advanced training
• Try advanced techniques from your saves
• Set new fitness goals
• Monitor and adjust your plan

Your saved content includes: ` + examples

	case content.Finance:
		return `Here's your financial action plan:

💰 **Month 1**: Foundation
• Review budgeting tips from your saves
• Track your current spending
• Set financial goals

💰 **Month 2**: Optimization
• Implement saving strategies you've saved
• Reduce unnecessary expenses
• Start emergency fund

💰 **Month 3+**: Growth
• Explore investment options from your saves
• Automate your savings
• Plan for long-term goals

Based on your saves: ` + examples

	case content.Knowledge:
		return `Here's your learning plan:

📚 **Phase 1**: Foundation (Week 1-2)
• Start with beginner content from your saves
• Set daily learning time
• Take notes and track progress

📚 **Phase 2**: Deep dive (Week 3-6)
• Focus on core concepts you've saved
• Practice what you learn
• Connect concepts together

📚 **Phase 3**: Application (Week 7+)
• Apply knowledge to real projects
• Review advanced content
• Share and teach others

Your learning resources: ` + examples
	}

	return fmt.Sprintf(`Here's an action plan for your %s content:

✅ **Step 1**: Review and organize
• Go through your %d saved items
• Identify key themes and priorities
• Remove outdated or irrelevant content

✅ **Step 2**: Create action items
• Turn each save into specific tasks
• Set deadlines and milestones
• Start with quick wins

✅ **Step 3**: Execute and track
• Work through your action items
• Track progress and results
• Adjust your approach as needed

Start with: %s`, c, len(items), examples)
}

func mixedTemplate(groups []group) string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = string(g.category)
	}
	return fmt.Sprintf(`I see you have diverse content across %s. Here's a balanced approach:

🎯 **Week 1**: Foundation
• Pick one category to focus on first
• Review and organize that content
• Start with 1-2 actionable items

🎯 **Week 2-3**: Expand
• Add a second category
• Create routines for both areas
• Track your progress

🎯 **Week 4+**: Integrate
• Balance all your interests
• Create cross-category connections
• Maintain consistent action

Which category would you like to start with?`, strings.Join(names, ", "))
}
