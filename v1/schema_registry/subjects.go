package schema_registry

// TopicValueSubject returns the conventional subject for a topic's value schema.
func TopicValueSubject(topic string) string {
	return topic + "-value"
}

// TopicKeySubject returns the conventional subject for a topic's key schema.
func TopicKeySubject(topic string) string {
	return topic + "-key"
}
