package session

import "parley/internal/types"

// ChatActivity counts what happened in one chat since the client
// started. Derived state: safe to lose, never authoritative.
type ChatActivity struct {
	Messages      map[types.Role]int
	ConfigChanges int
	Total         int
}

// Activity accumulates per-role message counters and config-change
// counters, globally and per chat. Counters are monotonic for the
// lifetime of the process and drive dependent refreshes only.
type Activity struct {
	global  ChatActivity
	perChat map[int]*ChatActivity
}

func NewActivity() *Activity {
	return &Activity{
		global:  ChatActivity{Messages: map[types.Role]int{}},
		perChat: map[int]*ChatActivity{},
	}
}

// RecordMessage increments the role counter for the chat and the global
// totals.
func (a *Activity) RecordMessage(chatID int, role types.Role) {
	chat := a.chat(chatID)
	chat.Messages[role]++
	chat.Total++
	a.global.Messages[role]++
	a.global.Total++
}

// RecordConfigChange increments the configuration-change counter for the
// chat and the global totals.
func (a *Activity) RecordConfigChange(chatID int) {
	chat := a.chat(chatID)
	chat.ConfigChanges++
	chat.Total++
	a.global.ConfigChanges++
	a.global.Total++
}

func (a *Activity) Global() ChatActivity {
	return cloneActivity(&a.global)
}

func (a *Activity) ForChat(chatID int) ChatActivity {
	entry, ok := a.perChat[chatID]
	if !ok {
		return ChatActivity{Messages: map[types.Role]int{}}
	}
	return cloneActivity(entry)
}

func (a *Activity) chat(chatID int) *ChatActivity {
	entry, ok := a.perChat[chatID]
	if !ok {
		entry = &ChatActivity{Messages: map[types.Role]int{}}
		a.perChat[chatID] = entry
	}
	return entry
}

func cloneActivity(entry *ChatActivity) ChatActivity {
	messages := make(map[types.Role]int, len(entry.Messages))
	for role, count := range entry.Messages {
		messages[role] = count
	}
	return ChatActivity{
		Messages:      messages,
		ConfigChanges: entry.ConfigChanges,
		Total:         entry.Total,
	}
}
