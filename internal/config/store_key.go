package config

import (
	"fmt"
)

type StoreKeyStruct struct{}

func NewStoreKeyStruct() *StoreKeyStruct {
	return &StoreKeyStruct{}
}

// BankEntriesKey returns the redis list key holding the bank entries of a namespace
func (r *StoreKeyStruct) BankEntriesKey(namespace string) string {
	return fmt.Sprintf("qbank:%s:entries", namespace)
}

var StoreKey = NewStoreKeyStruct()
