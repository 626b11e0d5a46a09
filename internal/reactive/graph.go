// Package reactive 提供一个小型数据流调度器：节点声明依赖，
// 输入变化后按拓扑顺序重算所有受影响的输出节点。
//
// 所有求值都在同一把锁内串行执行，一次分发完整结束后才处理下一次，
// 因此下游节点一定能读到上游节点本轮写入的值。输入值可以由调用方随每次求值带入，
// 结果不写回图，多个调用方各自持有自己的输入。
package reactive

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrDuplicateNode = errors.New("duplicate node")
	ErrUnknownNode   = errors.New("unknown node")
	ErrNotInput      = errors.New("node is not an input")
	ErrCycle         = errors.New("dependency cycle")
	ErrSealed        = errors.New("graph is sealed")
	ErrNotSealed     = errors.New("graph is not sealed")
)

// Values 节点当前值（只读视图）
type Values map[string]any

// Func 输出节点的计算函数，参数为其依赖节点的当前值
type Func func(in Values) (any, error)

// Update 一次重算产生的输出值
type Update struct {
	ID    string `json:"id"`
	Value any    `json:"value"`
}

type node struct {
	id   string
	deps []string
	fn   Func // nil 表示输入节点
}

// Graph 依赖图
type Graph struct {
	mu sync.Mutex

	nodes      map[string]*node
	declared   []string
	dependents map[string][]string
	topo       []string
	values     map[string]any
	sealed     bool
}

// New 创建空图
func New() *Graph {
	return &Graph{
		nodes:      make(map[string]*node),
		dependents: make(map[string][]string),
		values:     make(map[string]any),
	}
}

// Input 声明输入节点
func (g *Graph) Input(id string, initial any) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.declareLocked(&node{id: id}); err != nil {
		return err
	}
	g.values[id] = initial
	return nil
}

// Output 声明输出节点，deps 可引用尚未声明的节点，Seal 时统一校验
func (g *Graph) Output(id string, deps []string, fn Func) error {
	if fn == nil {
		return fmt.Errorf("output %s: nil func", id)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.declareLocked(&node{id: id, deps: append([]string(nil), deps...), fn: fn})
}

func (g *Graph) declareLocked(n *node) error {
	if g.sealed {
		return ErrSealed
	}
	if _, ok := g.nodes[n.id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, n.id)
	}
	g.nodes[n.id] = n
	g.declared = append(g.declared, n.id)
	return nil
}

// Seal 校验依赖并计算拓扑序（Kahn 算法，同层按声明顺序）。
// 失败时图保持未封闭状态，不留下部分结果。
func (g *Graph) Seal() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sealed {
		return ErrSealed
	}

	dependents := make(map[string][]string, len(g.nodes))
	indegree := make(map[string]int, len(g.nodes))
	for _, id := range g.declared {
		n := g.nodes[id]
		for _, dep := range n.deps {
			if _, ok := g.nodes[dep]; !ok {
				return fmt.Errorf("%w: %s depends on %s", ErrUnknownNode, id, dep)
			}
			dependents[dep] = append(dependents[dep], id)
		}
		indegree[id] = len(n.deps)
	}

	queue := make([]string, 0, len(g.declared))
	for _, id := range g.declared {
		if indegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	topo := make([]string, 0, len(g.declared))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		topo = append(topo, id)
		for _, next := range dependents[id] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	if len(topo) != len(g.declared) {
		return ErrCycle
	}

	g.dependents = dependents
	g.topo = topo
	g.sealed = true
	return nil
}

// Evaluate 在当前值的副本上先叠加 state、再叠加 changes，只重算受 changes 影响的输出。
// 结果不写回图：同一张图可以为持有不同输入值的多个调用方求值。
// 计算函数自身的副作用（如外部状态）仍在锁内串行发生。
func (g *Graph) Evaluate(changes, state Values) ([]Update, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.sealed {
		return nil, ErrNotSealed
	}

	local, err := g.overlayLocked(state)
	if err != nil {
		return nil, err
	}
	ids, err := g.inputIDsLocked(changes)
	if err != nil {
		return nil, err
	}
	for id, v := range changes {
		local[id] = v
	}
	return g.propagateLocked(local, g.affectedLocked(ids))
}

// EvaluateAll 在叠加 state 的副本上重算全部输出，返回所有节点的值，不写回图
func (g *Graph) EvaluateAll(state Values) (Values, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.sealed {
		return nil, ErrNotSealed
	}

	local, err := g.overlayLocked(state)
	if err != nil {
		return nil, err
	}
	all := make(map[string]bool, len(g.nodes))
	for id := range g.nodes {
		all[id] = true
	}
	if _, err := g.propagateLocked(local, all); err != nil {
		return nil, err
	}
	return local, nil
}

func (g *Graph) overlayLocked(state Values) (Values, error) {
	if _, err := g.inputIDsLocked(state); err != nil {
		return nil, err
	}
	local := make(Values, len(g.values))
	for k, v := range g.values {
		local[k] = v
	}
	for k, v := range state {
		local[k] = v
	}
	return local, nil
}

// inputIDsLocked 校验 changes 中的 id 都是输入节点
func (g *Graph) inputIDsLocked(changes map[string]any) ([]string, error) {
	ids := make([]string, 0, len(changes))
	for id := range changes {
		n, ok := g.nodes[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
		}
		if n.fn != nil {
			return nil, fmt.Errorf("%w: %s", ErrNotInput, id)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Refresh 重算指定节点及其下游；不传参数时重算全部输出
func (g *Graph) Refresh(ids ...string) ([]Update, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.sealed {
		return nil, ErrNotSealed
	}

	if len(ids) == 0 {
		all := make(map[string]bool, len(g.nodes))
		for id := range g.nodes {
			all[id] = true
		}
		return g.propagateLocked(g.values, all)
	}
	for _, id := range ids {
		if _, ok := g.nodes[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
		}
	}
	affected := g.affectedLocked(ids)
	for _, id := range ids {
		affected[id] = true
	}
	return g.propagateLocked(g.values, affected)
}

// affectedLocked 传递闭包上的所有下游节点（不含起点本身）
func (g *Graph) affectedLocked(ids []string) map[string]bool {
	affected := make(map[string]bool)
	stack := append([]string(nil), ids...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range g.dependents[id] {
			if !affected[next] {
				affected[next] = true
				stack = append(stack, next)
			}
		}
	}
	return affected
}

func (g *Graph) propagateLocked(values map[string]any, affected map[string]bool) ([]Update, error) {
	var updates []Update
	for _, id := range g.topo {
		n := g.nodes[id]
		if !affected[id] || n.fn == nil {
			continue
		}
		in := make(Values, len(n.deps))
		for _, dep := range n.deps {
			in[dep] = values[dep]
		}
		v, err := n.fn(in)
		if err != nil {
			return updates, fmt.Errorf("compute %s: %w", id, err)
		}
		values[id] = v
		updates = append(updates, Update{ID: id, Value: v})
	}
	return updates, nil
}

// Order 拓扑序（调试与测试用）
func (g *Graph) Order() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.topo...)
}
