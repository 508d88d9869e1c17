package domain

// Topic is one entry of the topics reference collection.
// The set of topics is small and changes rarely; the backend mirrors it
// in memory and keeps the mirror live via a change subscription.
type Topic struct {
	ID          string
	Name        string
	Description string
}

// TopicFromFields maps a raw document into a Topic.
func TopicFromFields(id string, fields map[string]any) Topic {
	return Topic{
		ID:          id,
		Name:        StringField(fields, "name"),
		Description: StringField(fields, "description"),
	}
}
