package schema

import (
	"time"

	"github.com/doug-martin/goqu/v9"
)

const (
	UserTableName              = "users"
	UserTableIDColName         = "id"
	UserTableLoginColName      = "login"
	UserTableEmailColName      = "e_mail"
	UserTablePasswordColName   = "password"
	UserTableRegDateColName    = "reg_date"
	UserTableLastOnlineColName = "last_online"
	UserTableDeletedColName    = "deleted"
)

var (
	UserTable              = goqu.T(UserTableName)
	UserTableIDCol         = UserTable.Col(UserTableIDColName)
	UserTableLoginCol      = UserTable.Col(UserTableLoginColName)
	UserTableEmailCol      = UserTable.Col(UserTableEmailColName)
	UserTablePasswordCol   = UserTable.Col(UserTablePasswordColName)
	UserTableRegDateCol    = UserTable.Col(UserTableRegDateColName)
	UserTableLastOnlineCol = UserTable.Col(UserTableLastOnlineColName)
	UserTableDeletedCol    = UserTable.Col(UserTableDeletedColName)
)

type UserRow struct {
	ID         int64     `db:"id"`
	Login      string    `db:"login"`
	Email      string    `db:"e_mail"`
	Password   string    `db:"password"`
	RegDate    time.Time `db:"reg_date"`
	LastOnline time.Time `db:"last_online"`
	Deleted    bool      `db:"deleted"`
}
