package session

import "parley/internal/types"

// Thread reconstructs the linear conversational order from a history
// whose messages point backward at their parents. Messages without a
// parent reference, or whose parent is absent from the input, start a
// chain; each chain is walked forward through a parent→child index and
// the chains are concatenated in input order.
//
// When the history is well-formed (at most one child per parent) the
// result is a permutation of the input. When two messages claim the same
// parent, only the child that appears first in the input is followed;
// Branches reports such anomalies so callers can surface them.
func Thread(messages []types.ChatMessage) []types.ChatMessage {
	if len(messages) == 0 {
		return nil
	}

	byUUID := make(map[string]int, len(messages))
	for i, message := range messages {
		if message.UUID != "" {
			byUUID[message.UUID] = i
		}
	}

	// First child in input order wins; siblings stay unreachable.
	firstChild := make(map[string]int, len(messages))
	for i, message := range messages {
		parent := message.ParentMessageUUID
		if parent == "" {
			continue
		}
		if _, known := byUUID[parent]; !known {
			continue
		}
		if _, taken := firstChild[parent]; !taken {
			firstChild[parent] = i
		}
	}

	ordered := make([]types.ChatMessage, 0, len(messages))
	visited := make([]bool, len(messages))
	for i, message := range messages {
		if !isChainRoot(message, byUUID) {
			continue
		}
		for at := i; !visited[at]; {
			visited[at] = true
			ordered = append(ordered, messages[at])
			next, ok := firstChild[messages[at].UUID]
			if !ok {
				break
			}
			at = next
		}
	}
	return ordered
}

// Branches returns the parent uuids claimed by more than one message in
// the input. A non-empty result means Thread dropped sibling chains.
func Branches(messages []types.ChatMessage) []string {
	children := make(map[string]int, len(messages))
	for _, message := range messages {
		if message.ParentMessageUUID == "" {
			continue
		}
		children[message.ParentMessageUUID]++
	}
	var branched []string
	for _, message := range messages {
		if children[message.UUID] > 1 {
			branched = append(branched, message.UUID)
		}
	}
	return branched
}

func isChainRoot(message types.ChatMessage, byUUID map[string]int) bool {
	if message.ParentMessageUUID == "" {
		return true
	}
	_, known := byUUID[message.ParentMessageUUID]
	return !known
}
