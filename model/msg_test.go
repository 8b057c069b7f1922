package model

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/magiconair/properties/assert"
)

func TestMessage(t *testing.T) {
	ok := NewMessage(http.StatusOK, "", map[string]string{"status": "PENDING"})
	assert.Equal(t, ok.OK(), true)

	raw, err := json.Marshal(ok)
	assert.Equal(t, err, nil)
	assert.Equal(t, string(raw), `{"code":200,"data":{"status":"PENDING"}}`)

	notFound := NewMessage(http.StatusNotFound, "analysis x not found", nil)
	assert.Equal(t, notFound.OK(), false)
	raw, _ = json.Marshal(notFound)
	assert.Equal(t, string(raw), `{"code":404,"msg":"analysis x not found"}`)
}
