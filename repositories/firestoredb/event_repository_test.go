package firestoredb

import (
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
)

func TestAttendeeUpdateValue(t *testing.T) {
	t.Run("adds with an array union", func(t *testing.T) {
		assert.Equal(t, firestore.ArrayUnion("p-1"), attendeeUpdateValue("p-1", true))
	})

	t.Run("removes with an array remove", func(t *testing.T) {
		assert.Equal(t, firestore.ArrayRemove("p-1"), attendeeUpdateValue("p-1", false))
	})

	t.Run("both outcomes assign to the same update value", func(t *testing.T) {
		updates := []firestore.Update{
			{Path: "attendees", Value: attendeeUpdateValue("p-1", true)},
			{Path: "attendees", Value: attendeeUpdateValue("p-1", false)},
		}
		assert.NotEqual(t, updates[0].Value, updates[1].Value)
	})
}
