package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnake(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"ID", "id"},
		{"UserName", "user_name"},
		{"userName", "user_name"},
		{"HTTPServer", "http_server"},
		{"OrderID", "order_id"},
		{"already_snake", "already_snake"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Snake(tt.in))
		})
	}
}

func TestPascalAndCamel(t *testing.T) {
	assert.Equal(t, "UserName", Pascal("user_name"))
	assert.Equal(t, "UserName", Pascal("user-name"))
	assert.Equal(t, "userName", Camel("user_name"))
	assert.Equal(t, "userName", Camel("UserName"))
	assert.Empty(t, Camel(""))
}

func TestQualified(t *testing.T) {
	assert.Equal(t, "users", Qualified("", "users"))
	assert.Equal(t, "hr.users", Qualified("hr", "users"))
}
