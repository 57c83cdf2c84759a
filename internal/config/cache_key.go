package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// StartExamLockKey returns the lock key serializing start-exam for a student and exam.
func (r *CacheKeyStruct) StartExamLockKey(examID, studentID string) string {
	return fmt.Sprintf("lock:exam:%s:student:%s:start", examID, studentID)
}

var CacheKey = NewCacheKeyStruct()
