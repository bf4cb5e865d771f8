package cart

// Intent names a cart mutation.
type Intent string

// Cart intents.
const (
	IntentAdd      Intent = "add"
	IntentRemove   Intent = "remove"
	IntentIncrease Intent = "increase"
	IntentDecrease Intent = "decrease"
	IntentClear    Intent = "clear"
)

// Apply derives the next list for an intent. It never modifies ids and
// reports whether the result differs from it.
func Apply(ids IDList, intent Intent, id string) (IDList, bool) {
	switch intent {
	case IntentAdd:
		return Add(ids, id), true
	case IntentIncrease:
		return Increase(ids, id), true
	case IntentRemove:
		return Remove(ids, id)
	case IntentDecrease:
		return Decrease(ids, id)
	case IntentClear:
		return IDList{}, len(ids) > 0
	default:
		return ids.Clone(), false
	}
}

// Add appends one unit of id.
func Add(ids IDList, id string) IDList {
	next := make(IDList, 0, len(ids)+1)
	next = append(next, ids...)
	return append(next, id)
}

// Increase is Add.
func Increase(ids IDList, id string) IDList {
	return Add(ids, id)
}

// Remove drops every unit of id.
func Remove(ids IDList, id string) (IDList, bool) {
	next := make(IDList, 0, len(ids))
	for _, v := range ids {
		if v != id {
			next = append(next, v)
		}
	}
	return next, len(next) != len(ids)
}

// Decrease drops the first unit of id. An absent id leaves the list unchanged.
func Decrease(ids IDList, id string) (IDList, bool) {
	index := -1
	for i, v := range ids {
		if v == id {
			index = i
			break
		}
	}
	if index == -1 {
		return ids.Clone(), false
	}

	next := make(IDList, 0, len(ids)-1)
	next = append(next, ids[:index]...)
	next = append(next, ids[index+1:]...)
	return next, true
}
