package rank

import "fmt"

var milestoneMessages = map[int]string{
	1:   "Welcome to Level 1. You typed 'Hi' and got a medal.",
	2:   "Level 2? Okay, you're actually staying here. Respect.",
	5:   "Level 5 unlocked. First week regular. Touch some grass?",
	10:  "Level 10. Certified Regular. Server furniture level achieved.",
	25:  "Level 25. Ah, a dedicated chatter. Family thinks you're missing.",
	50:  "Level 50. You're now part of the Discord elite. No life detected.",
	75:  "Level 75. Veteran. You've seen things. Horrible things.",
	100: "Level 100. Legend. Bro, go outside. It's been years.",
}

// MilestoneMessage returns the flavor text for a milestone level.
func MilestoneMessage(level int) (string, bool) {
	msg, ok := milestoneMessages[level]
	return msg, ok
}

// LevelUpMessage formats the announcement sent when mention reaches level.
func LevelUpMessage(mention string, level int) string {
	if flavor, ok := MilestoneMessage(level); ok {
		return fmt.Sprintf("🎉 %s reached **Level %d**!\n%s", mention, level, flavor)
	}
	return fmt.Sprintf("🎉 %s hit Level %d!", mention, level)
}
