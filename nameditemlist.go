package odx

// NamedItemList is an ordered collection of elements that can also be
// looked up by their short name. Iteration order is insertion order.
// When two items share a short name, lookup by name returns the first
// one added.
type NamedItemList[T NamedElement] struct {
	items []T
	index map[string]int
}

// NewNamedItemList returns a list holding the given items.
func NewNamedItemList[T NamedElement](items ...T) NamedItemList[T] {
	l := NamedItemList[T]{
		items: items,
		index: make(map[string]int, len(items)),
	}
	for i, item := range items {
		if _, exists := l.index[item.Name()]; !exists {
			l.index[item.Name()] = i
		}
	}
	return l
}

// Len returns the number of items in the list.
func (l NamedItemList[T]) Len() int { return len(l.items) }

// Items returns the underlying slice. It must not be modified.
func (l NamedItemList[T]) Items() []T { return l.items }

// At returns the item at the given position.
func (l NamedItemList[T]) At(i int) T { return l.items[i] }

// ByName returns the first item with the given short name.
func (l NamedItemList[T]) ByName(name string) (T, bool) {
	if i, ok := l.index[name]; ok {
		return l.items[i], true
	}
	var zero T
	return zero, false
}

// Contains reports whether an item with the given short name exists.
func (l NamedItemList[T]) Contains(name string) bool {
	_, ok := l.index[name]
	return ok
}

// Names returns the short names of all items in insertion order.
func (l NamedItemList[T]) Names() []string {
	names := make([]string, len(l.items))
	for i, item := range l.items {
		names[i] = item.Name()
	}
	return names
}

func (l *NamedItemList[T]) append(item T) {
	if l.index == nil {
		l.index = make(map[string]int)
	}
	l.items = append(l.items, item)
	if _, exists := l.index[item.Name()]; !exists {
		l.index[item.Name()] = len(l.items) - 1
	}
}
