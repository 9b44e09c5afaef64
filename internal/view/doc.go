// Package view turns slot collections into view models.
//
// EditorRows and Display are pure functions of a collection. Board holds the
// display containers a surface has mounted and rebuilds them on demand;
// BoardObserver connects a Board to schedule.Store notifications.
package view
