package chathub

import "sort"

// Registry maps rooms to their member clients and back. It is not safe for
// concurrent use; the hub goroutine owns it.
type Registry struct {
	rooms       map[string]map[Client]struct{}
	memberships map[Client]map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:       make(map[string]map[Client]struct{}),
		memberships: make(map[Client]map[string]struct{}),
	}
}

// Join adds c to room and reports whether it was not already a member.
func (r *Registry) Join(c Client, room string) bool {
	members, ok := r.rooms[room]
	if !ok {
		members = make(map[Client]struct{})
		r.rooms[room] = members
	}
	if _, already := members[c]; already {
		return false
	}
	members[c] = struct{}{}

	joined, ok := r.memberships[c]
	if !ok {
		joined = make(map[string]struct{})
		r.memberships[c] = joined
	}
	joined[room] = struct{}{}
	return true
}

// Leave removes c from every room and returns the rooms it left, sorted.
func (r *Registry) Leave(c Client) []string {
	joined := r.memberships[c]
	left := make([]string, 0, len(joined))
	for room := range joined {
		members := r.rooms[room]
		delete(members, c)
		if len(members) == 0 {
			delete(r.rooms, room)
		}
		left = append(left, room)
	}
	delete(r.memberships, c)
	sort.Strings(left)
	return left
}

// Members returns a snapshot of room's clients.
func (r *Registry) Members(room string) []Client {
	members := r.rooms[room]
	out := make([]Client, 0, len(members))
	for c := range members {
		out = append(out, c)
	}
	return out
}

// RoomsOf returns the rooms c has joined, sorted.
func (r *Registry) RoomsOf(c Client) []string {
	joined := r.memberships[c]
	out := make([]string, 0, len(joined))
	for room := range joined {
		out = append(out, room)
	}
	sort.Strings(out)
	return out
}

// Size is the number of members in room.
func (r *Registry) Size(room string) int {
	return len(r.rooms[room])
}
