package database

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"testing"

	"eshop/internal/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOpenGORM_MissingRowIsNotLogged(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	db, err := OpenGORM(DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	var user models.User
	err = db.Where("email = ?", "nobody@example.com").First(&user).Error
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.NotContains(t, buf.String(), "record not found")

	// real failures still reach the log
	err = db.Exec("SELECT * FROM no_such_table").Error
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "no_such_table")
}

func TestOpenGORM_UnsupportedDriver(t *testing.T) {
	_, err := OpenGORM("oracle", "dsn")
	assert.Error(t, err)
}
