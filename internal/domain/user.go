package domain

// Token is the opaque credential returned by login. It is passed on every
// request and never inspected by the sync client.
type Token string

// Profile is the read-mostly user or partner record.
type Profile struct {
	Username    string
	DisplayName string
	MoodScale   int
	MoodStatus  string
}

// Ack is the acknowledgement body returned by write endpoints.
type Ack struct {
	Status  int
	Message string
}
