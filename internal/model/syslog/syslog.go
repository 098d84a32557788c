package syslog

import "time"

// SysLog append-only audit line
type SysLog struct {
	ID  uint      `gorm:"primaryKey" json:"id"`
	Msg string    `gorm:"not null" json:"msg"`
	Ts  time.Time `gorm:"index;not null;autoCreateTime" json:"ts"`
}

func (SysLog) TableName() string {
	return "sys_log"
}
