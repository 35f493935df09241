// Package scene holds the logical array being sorted and the identity to
// renderable lookup that keeps it in step with a 3D scene.
//
// The package defines:
//
//   - [Element]: a value plus the stable [Identity] it was generated with
//   - [Array]: the ordered, goroutine-safe logical array a sort driver reorders
//   - [Renderer]: the rendering collaborator that owns positioned bars
//   - [Registry]: generates arrays, spawns one bar per element and resolves
//     identities to [Handle] values
//
// # Generations
//
// Every call to [Registry.Generate] or [Registry.Load] starts a new
// generation: all handles of the previous generation are released and none of
// their identities resolve afterwards. A sort still holding the previous
// [Array] keeps working on it without touching the new scene.
package scene
