package labels

import "slices"

// Vocabulary is the ordered, duplicate free set of labels observed in a dataset. It is not
// mutated after construction, so one Vocabulary can be shared by several encoders.
type Vocabulary struct {
	list  []string
	index map[string]int
}

// NewVocabulary creates a Vocabulary from labels in the given order, skipping repeats.
func NewVocabulary(labels ...string) *Vocabulary {
	v := &Vocabulary{
		list:  make([]string, 0, len(labels)),
		index: make(map[string]int, len(labels)),
	}
	for _, label := range labels {
		v.add(label)
	}
	return v
}

// BuildVocabulary scans records in order and collects each tag the first time it is seen.
func BuildVocabulary(records []Record) *Vocabulary {
	v := NewVocabulary()
	for _, record := range records {
		for _, label := range Tokenize(record.Tags) {
			v.add(label)
		}
	}
	return v
}

func (v *Vocabulary) add(label string) {
	if _, ok := v.index[label]; ok {
		return
	}
	v.index[label] = len(v.list)
	v.list = append(v.list, label)
}

// Labels returns a copy of the labels in vocabulary order.
func (v *Vocabulary) Labels() []string {
	return slices.Clone(v.list)
}

func (v *Vocabulary) Len() int {
	return len(v.list)
}

// Index returns the vector position of label.
func (v *Vocabulary) Index(label string) (int, bool) {
	i, ok := v.index[label]
	return i, ok
}

func (v *Vocabulary) Contains(label string) bool {
	_, ok := v.index[label]
	return ok
}

func (v *Vocabulary) Label(i int) string {
	return v.list[i]
}
