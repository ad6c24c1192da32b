package cart

// ChangeFunc receives the cart state after a mutation.
type ChangeFunc func(items []Item, count, total float64)

// Watcher wraps a Cart and notifies subscribers after every successful
// mutation. It exists only at the UI boundary; the Cart itself knows
// nothing about subscribers and stays independently testable.
type Watcher struct {
	cart      *Cart
	listeners []ChangeFunc
}

func Watch(c *Cart) *Watcher {
	return &Watcher{cart: c}
}

func (w *Watcher) Subscribe(fn ChangeFunc) {
	w.listeners = append(w.listeners, fn)
}

func (w *Watcher) notify() {
	items := w.cart.Items()
	count := w.cart.Count()
	total := w.cart.Total()
	for _, fn := range w.listeners {
		fn(items, count, total)
	}
}

func (w *Watcher) Add(product Snapshot, qty float64) bool {
	ok := w.cart.Add(product, qty)
	if ok {
		w.notify()
	}
	return ok
}

func (w *Watcher) Decrease(productID string) {
	w.cart.Decrease(productID)
	w.notify()
}

func (w *Watcher) Remove(productID string) {
	w.cart.Remove(productID)
	w.notify()
}

func (w *Watcher) SetCustomPrice(productID string, price float64) error {
	err := w.cart.SetCustomPrice(productID, price)
	if err == nil {
		w.notify()
	}
	return err
}

func (w *Watcher) Clear() {
	w.cart.Clear()
	w.notify()
}
