package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
)

func TestIsDuplicateKey(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'x' for key 'uni_pin_users_user_id'"}

	require.True(t, IsDuplicateKey(dup))
	require.True(t, IsDuplicateKey(fmt.Errorf("create user: %w", dup)))

	require.False(t, IsDuplicateKey(&mysql.MySQLError{Number: 1452}))
	require.False(t, IsDuplicateKey(errors.New("duplicate entry")))
	require.False(t, IsDuplicateKey(nil))
}
