package machina

import (
	"sort"
	"strconv"
	"strings"
)

// Context is the mutable payload carried by one Instance and handed to guard
// and action callbacks. It is a tree of values addressed by slash-separated
// paths: intermediate nodes are objects (map[string]any) or arrays ([]any),
// leaves are plain values. A numeric path segment indexes an array.
//
// A Context is owned exclusively by its Instance and, per the engine's
// synchronous execution model, is only ever touched by one callback at a
// time; it performs no locking of its own.
type Context struct {
	root map[string]any
}

const pathSeparator = "/"

// NewContext creates an empty context.
func NewContext() *Context {
	return &Context{root: make(map[string]any)}
}

// NewContextFrom creates a context whose root object is initialized with the
// given values. The map is used directly, not copied.
func NewContextFrom(values map[string]any) *Context {
	if values == nil {
		values = make(map[string]any)
	}
	return &Context{root: values}
}

// Get retrieves the value at path.
func (c *Context) Get(path string) (any, bool) {
	container, key, ok := c.find(path, false)
	if !ok {
		return nil, false
	}
	return containerGet(container, key)
}

// Set stores value at path, creating intermediate objects as needed. Setting
// through an existing array requires the index to be in range. It reports
// whether the value was stored.
func (c *Context) Set(path string, value any) bool {
	container, key, ok := c.find(path, true)
	if !ok {
		return false
	}
	return containerSet(container, key, value)
}

// Has reports whether a value exists at path.
func (c *Context) Has(path string) bool {
	_, ok := c.Get(path)
	return ok
}

// Delete removes and returns the value at path. Only object entries can be
// removed; a path that addresses an array element returns false, since
// removing it would reindex the siblings. Set the element to nil instead.
func (c *Context) Delete(path string) (any, bool) {
	container, key, ok := c.find(path, false)
	if !ok {
		return nil, false
	}
	obj, isObj := container.(map[string]any)
	if !isObj {
		return nil, false
	}
	value, exists := obj[key]
	if !exists {
		return nil, false
	}
	delete(obj, key)
	return value, true
}

// Len returns the number of entries in the root object.
func (c *Context) Len() int {
	return len(c.root)
}

// Keys returns the sorted keys of the root object.
func (c *Context) Keys() []string {
	keys := make([]string, 0, len(c.root))
	for k := range c.root {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetString retrieves a string value at path.
func (c *Context) GetString(path string) (string, bool) {
	v, ok := c.Get(path)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetInt retrieves an int value at path.
func (c *Context) GetInt(path string) (int, bool) {
	v, ok := c.Get(path)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}

// GetBool retrieves a bool value at path.
func (c *Context) GetBool(path string) (bool, bool) {
	v, ok := c.Get(path)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// GetFloat retrieves a float64 value at path.
func (c *Context) GetFloat(path string) (float64, bool) {
	v, ok := c.Get(path)
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

// find resolves path to the container holding its final segment and that
// final segment. With create set, missing intermediate objects are created.
func (c *Context) find(path string, create bool) (container any, key string, ok bool) {
	segments := strings.Split(path, pathSeparator)
	if len(segments) == 0 || path == "" {
		return nil, "", false
	}
	var current any = c.root
	for _, segment := range segments[:len(segments)-1] {
		next, exists := containerGet(current, segment)
		if !exists {
			if !create {
				return nil, "", false
			}
			obj, isObj := current.(map[string]any)
			if !isObj {
				return nil, "", false
			}
			child := make(map[string]any)
			obj[segment] = child
			current = child
			continue
		}
		switch next.(type) {
		case map[string]any, []any:
			current = next
		default:
			return nil, "", false
		}
	}
	return current, segments[len(segments)-1], true
}

func containerGet(container any, key string) (any, bool) {
	switch node := container.(type) {
	case map[string]any:
		v, ok := node[key]
		return v, ok
	case []any:
		index, err := strconv.Atoi(key)
		if err != nil || index < 0 || index >= len(node) {
			return nil, false
		}
		return node[index], true
	}
	return nil, false
}

func containerSet(container any, key string, value any) bool {
	switch node := container.(type) {
	case map[string]any:
		node[key] = value
		return true
	case []any:
		index, err := strconv.Atoi(key)
		if err != nil || index < 0 || index >= len(node) {
			return false
		}
		node[index] = value
		return true
	}
	return false
}
