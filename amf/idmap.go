package amf

import (
	"strconv"

	"github.com/google/uuid"
)

// IDMap relates scene nodes to the object ids of a document
type IDMap struct {
	UUID2Object map[uuid.UUID]string
	Object2UUID map[string]uuid.UUID

	// Max is the largest numeric object id, valid once one was added
	Max     int
	numeric bool
}

func NewIDMap() IDMap {
	return IDMap{
		UUID2Object: make(map[uuid.UUID]string),
		Object2UUID: make(map[string]uuid.UUID),
	}
}

func (m *IDMap) Entries() int {
	return len(m.Object2UUID)
}

// Add records the pair. Max tracks the largest numeric object id seen.
func (m *IDMap) Add(u uuid.UUID, objectID string) {
	if m.Object2UUID == nil {
		m.Object2UUID = make(map[string]uuid.UUID)
	}
	if m.UUID2Object == nil {
		m.UUID2Object = make(map[uuid.UUID]string)
	}
	m.Object2UUID[objectID] = u
	m.UUID2Object[u] = objectID

	if n, err := strconv.Atoi(objectID); err == nil && (!m.numeric || n > m.Max) {
		m.Max = n
		m.numeric = true
	}
}

// Has reports whether objectID is taken
func (m *IDMap) Has(objectID string) bool {
	_, ok := m.Object2UUID[objectID]
	return ok
}

// Object returns the object id written for the node u
func (m *IDMap) Object(u uuid.UUID) (string, bool) {
	id, ok := m.UUID2Object[u]
	return id, ok
}

// Node returns the id of the node created for objectID
func (m *IDMap) Node(objectID string) (uuid.UUID, bool) {
	u, ok := m.Object2UUID[objectID]
	return u, ok
}

// Next assigns the next free numeric object id to u, starting at 0
func (m *IDMap) Next(u uuid.UUID) string {
	next := 0
	if m.numeric && m.Max >= 0 {
		next = m.Max + 1
	}
	id := strconv.Itoa(next)
	for m.Has(id) {
		next++
		id = strconv.Itoa(next)
	}
	m.Add(u, id)
	return id
}
