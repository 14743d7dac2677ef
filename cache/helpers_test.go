package cache

import (
	"errors"
	"sync"
	"time"
)

var errAny = errors.New("any error")

func uniqueProducts() ([]Product, []CacheRecord) {
	products := []Product{
		{
			ID:          1,
			Title:       "Fjallraven Backpack",
			Price:       109.95,
			Description: "Fits 15 inch laptops",
			Category:    "men's clothing",
			Image:       "https://example.com/img/1.jpg",
			Rating:      Rating{Rate: 3.9, Count: 120},
		},
		{
			ID:          2,
			Title:       "Slim Fit T-Shirt",
			Price:       22.3,
			Description: "Slim-fitting style",
			Category:    "men's clothing",
			Image:       "https://example.com/img/2.jpg",
			Rating:      Rating{Rate: 4.1, Count: 259},
		},
	}
	return products, ToRecords(products)
}

// fixedNow is a Wednesday noon, away from any daylight-saving transition
func fixedNow() time.Time {
	return time.Date(2024, time.March, 13, 12, 0, 0, 0, time.Local)
}

func minusMaxCacheAge(t time.Time) time.Time {
	return t.AddDate(0, 0, -MaxCacheAgeInDays)
}

type receivedMessage struct {
	kind      string
	records   []CacheRecord
	timestamp time.Time
}

// storeSpy records every call and lets the test complete them explicitly
type storeSpy struct {
	mu                   sync.Mutex
	messages             []receivedMessage
	deletionCompletions  []Completion
	insertionCompletions []Completion
	retrievalCompletions []RetrievalCompletion
}

func (s *storeSpy) Retrieve(completion RetrievalCompletion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, receivedMessage{kind: "retrieve"})
	s.retrievalCompletions = append(s.retrievalCompletions, completion)
}

func (s *storeSpy) Insert(records []CacheRecord, timestamp time.Time, completion Completion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, receivedMessage{kind: "insert", records: records, timestamp: timestamp})
	s.insertionCompletions = append(s.insertionCompletions, completion)
}

func (s *storeSpy) Delete(completion Completion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, receivedMessage{kind: "delete"})
	s.deletionCompletions = append(s.deletionCompletions, completion)
}

func (s *storeSpy) Close() error { return nil }

func (s *storeSpy) kinds() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	kinds := make([]string, len(s.messages))
	for i, m := range s.messages {
		kinds[i] = m.kind
	}
	return kinds
}

func (s *storeSpy) completeDeletion(err error) {
	s.mu.Lock()
	c := s.deletionCompletions[0]
	s.deletionCompletions = s.deletionCompletions[1:]
	s.mu.Unlock()
	c(err)
}

func (s *storeSpy) completeInsertion(err error) {
	s.mu.Lock()
	c := s.insertionCompletions[0]
	s.insertionCompletions = s.insertionCompletions[1:]
	s.mu.Unlock()
	c(err)
}

func (s *storeSpy) completeRetrieval(snapshot *CachedSnapshot, err error) {
	s.mu.Lock()
	c := s.retrievalCompletions[0]
	s.retrievalCompletions = s.retrievalCompletions[1:]
	s.mu.Unlock()
	c(snapshot, err)
}
